package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/services/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	user *dto.GoogleUser
	err  error
}

func (g fakeGoogle) Verify(context.Context, string) (*dto.GoogleUser, error) {
	return g.user, g.err
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	signed, err := tokens.Generate(42, constants.RoleSuperAdmin)
	require.NoError(t, err)

	caller, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), caller.UserID)
	assert.True(t, caller.SuperAdmin())

	_, err = NewTokenService("other", time.Hour).Parse(signed)
	requireCode(t, err, apperrors.ErrCodeInvalidToken)

	_, err = tokens.Parse("not.a.token")
	requireCode(t, err, apperrors.ErrCodeInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err := tokens.Generate(7, constants.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Parse(signed)
	appErr := requireCode(t, err, apperrors.ErrCodeInvalidToken)
	assert.Equal(t, "Token đã hết hạn", appErr.Message)
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserInfo: UserInfo{UserId: 1}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Parse(unsigned)
	requireCode(t, err, apperrors.ErrCodeInvalidToken)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	db := newMemDB()
	tokens := NewTokenService("secret", time.Hour)
	svc := NewAuthService(memUsers{db: db}, tokens, nil, logger.Nop{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterInput{Name: "An", Email: "An@Example.com", Password: "matkhau1"})
	require.NoError(t, err)
	assert.Equal(t, "an@example.com", resp.UserEmail)
	require.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "matkhau1", db.users[resp.UserID].Password)

	caller, err := tokens.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, caller.UserID)

	_, err = svc.Register(ctx, dto.RegisterInput{Name: "An", Email: "an@example.com", Password: "matkhau1"})
	requireCode(t, err, apperrors.ErrCodeUserExists)

	_, err = svc.Register(ctx, dto.RegisterInput{Name: "B", Email: "b@example.com", Password: "123"})
	requireCode(t, err, apperrors.ErrCodeValidation)

	tests := []struct {
		name  string
		input dto.LoginInput
		code  apperrors.ErrorCode
	}{
		{name: "wrong password", input: dto.LoginInput{Email: "an@example.com", Password: "sai"}, code: apperrors.ErrCodeInvalidPassword},
		{name: "unknown email", input: dto.LoginInput{Email: "x@example.com", Password: "matkhau1"}, code: apperrors.ErrCodeInvalidPassword},
		{name: "missing password", input: dto.LoginInput{Email: "an@example.com"}, code: apperrors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.input)
			requireCode(t, err, tt.code)
		})
	}

	login, err := svc.Login(ctx, dto.LoginInput{Email: "AN@example.com", Password: "matkhau1"})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)

	db.users[resp.UserID].Status = constants.UserStatusInactive
	_, err = svc.Login(ctx, dto.LoginInput{Email: "an@example.com", Password: "matkhau1"})
	requireCode(t, err, apperrors.ErrCodeForbidden)

	me, err := svc.Me(ctx, Caller{UserID: resp.UserID})
	require.NoError(t, err)
	assert.Equal(t, "An", me.UserName)
	assert.Empty(t, me.AccessToken)
}

func TestAuthGoogleLogin(t *testing.T) {
	db := newMemDB()
	existing := db.seedUser("Hoa", "hoa@example.com")
	tokens := NewTokenService("secret", time.Hour)
	ctx := context.Background()

	linked, err := NewAuthService(memUsers{db: db}, tokens, fakeGoogle{user: &dto.GoogleUser{
		GoogleID: "g-1", Name: "Hoa", Email: "Hoa@example.com", Picture: "https://img/hoa.png",
	}}, logger.Nop{}).GoogleLogin(ctx, dto.GoogleLoginInput{IDToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.UserID)
	assert.Equal(t, "g-1", db.users[existing.ID].GoogleID)

	created, err := NewAuthService(memUsers{db: db}, tokens, fakeGoogle{user: &dto.GoogleUser{
		GoogleID: "g-2", Name: "Minh", Email: "minh@example.com",
	}}, logger.Nop{}).GoogleLogin(ctx, dto.GoogleLoginInput{IDToken: "tok"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, created.UserID)
	assert.NotEmpty(t, created.AccessToken)

	_, err = NewAuthService(memUsers{db: db}, tokens, fakeGoogle{err: errors.New("bad audience")}, logger.Nop{}).
		GoogleLogin(ctx, dto.GoogleLoginInput{IDToken: "tok"})
	requireCode(t, err, apperrors.ErrCodeInvalidToken)

	_, err = NewAuthService(memUsers{db: db}, tokens, nil, logger.Nop{}).GoogleLogin(ctx, dto.GoogleLoginInput{IDToken: "tok"})
	requireCode(t, err, apperrors.ErrCodeInvalidState)
}
