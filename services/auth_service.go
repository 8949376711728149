package services

import (
	"context"
	"errors"
	"strings"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/services/logger"
	"propman/validator"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier xác thực Google ID token
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*dto.GoogleUser, error)
}

type IDTokenVerifier struct {
	ClientID string
}

func (v IDTokenVerifier) Verify(ctx context.Context, token string) (*dto.GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, token, v.ClientID)
	if err != nil {
		return nil, err
	}
	claim := func(key string) string {
		s, _ := payload.Claims[key].(string)
		return s
	}
	return &dto.GoogleUser{
		GoogleID: payload.Subject,
		Name:     claim("name"),
		Email:    claim("email"),
		Picture:  claim("picture"),
	}, nil
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	google GoogleVerifier
	logger logger.Logger
}

func NewAuthService(users UserStore, tokens *TokenService, google GoogleVerifier, log logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop{}
	}
	return &AuthService{users: users, tokens: tokens, google: google, logger: log}
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserLoginResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUserExists, "Email đã được sử dụng", nil)
	} else if !errors.Is(err, apperrors.ErrRecordNotFound) {
		return nil, storageErr(err, "")
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "Không thể mã hóa mật khẩu", err)
	}
	user := &models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    hashed,
		PhoneNumber: input.PhoneNumber,
		Role:        constants.RoleUser,
		Status:      constants.UserStatusActive,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, apperrors.ErrDuplicateRecord) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUserExists, "Email đã được sử dụng", err)
	}
	if err != nil {
		return nil, storageErr(err, "")
	}
	s.logger.Info("Đăng ký user mới %d", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.UserLoginResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidPassword, "Email hoặc mật khẩu không đúng", nil)
	}
	if err != nil {
		return nil, storageErr(err, "")
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidPassword, "Email hoặc mật khẩu không đúng", nil)
	}
	if user.Status != constants.UserStatusActive {
		return nil, apperrors.ForbiddenError("Tài khoản đã bị khóa")
	}
	return s.issue(user)
}

// GoogleLogin đăng nhập bằng Google, tạo user mới nếu chưa có
func (s *AuthService) GoogleLogin(ctx context.Context, input dto.GoogleLoginInput) (*dto.UserLoginResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	if s.google == nil {
		return nil, apperrors.StateError("Đăng nhập Google chưa được cấu hình")
	}
	gu, err := s.google.Verify(ctx, input.IDToken)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Google token không hợp lệ", err)
	}

	user, err := s.users.FindByGoogleID(ctx, gu.GoogleID)
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		user, err = s.linkGoogleUser(ctx, gu)
	}
	if err != nil {
		return nil, storageErr(err, "")
	}
	if user.Status != constants.UserStatusActive {
		return nil, apperrors.ForbiddenError("Tài khoản đã bị khóa")
	}
	return s.issue(user)
}

func (s *AuthService) linkGoogleUser(ctx context.Context, gu *dto.GoogleUser) (*models.User, error) {
	email := strings.ToLower(gu.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		user.GoogleID = gu.GoogleID
		if user.Avatar == "" {
			user.Avatar = gu.Picture
		}
		return user, s.users.Save(ctx, user)
	}
	if !errors.Is(err, apperrors.ErrRecordNotFound) {
		return nil, err
	}
	user = &models.User{
		Name:     gu.Name,
		Email:    email,
		GoogleID: gu.GoogleID,
		Avatar:   gu.Picture,
		Role:     constants.RoleUser,
		Status:   constants.UserStatusActive,
	}
	return user, s.users.Create(ctx, user)
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (*dto.UserLoginResponse, error) {
	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập")
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy người dùng")
	}
	resp := toLoginResponse(user)
	return &resp, nil
}

func (s *AuthService) issue(user *models.User) (*dto.UserLoginResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không thể tạo token", err)
	}
	resp := toLoginResponse(user)
	resp.AccessToken = token
	return &resp, nil
}

func toLoginResponse(user *models.User) dto.UserLoginResponse {
	return dto.UserLoginResponse{
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserPhone:  user.PhoneNumber,
		UserRole:   user.Role,
		UserStatus: user.Status,
		UserAvatar: user.Avatar,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
