package services

import (
	"fmt"
	"time"

	apperrors "propman/errors"

	"github.com/dgrijalva/jwt-go"
)

type UserInfo struct {
	UserId uint `json:"userid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// TokenService ký và kiểm tra access token HS256
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) Generate(userID uint, role int) (string, error) {
	now := s.now()
	claims := &Claims{
		UserInfo: UserInfo{UserId: userID, Role: role},
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse kiểm tra chữ ký, hạn dùng và trả về Caller
func (s *TokenService) Parse(tokenString string) (Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Caller{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token đã hết hạn", err)
		}
		return Caller{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token không hợp lệ", err)
	}
	if !token.Valid || claims.UserInfo.UserId == 0 {
		return Caller{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không tìm thấy thông tin user trong token", nil)
	}
	return Caller{UserID: claims.UserInfo.UserId, Role: claims.UserInfo.Role}, nil
}
