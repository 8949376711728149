package dto

import (
	"time"
)

type RegisterInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric,len=10"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UserLoginResponse struct {
	UserID      uint      `json:"id"`
	UserName    string    `json:"name"`
	UserEmail   string    `json:"email"`
	UserPhone   string    `json:"phone"`
	UserRole    int       `json:"role"`
	UserStatus  int       `json:"status"`
	UserAvatar  string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AccessToken string    `json:"accessToken,omitempty"`
}

type GoogleUser struct {
	GoogleID string `json:"googleId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}
