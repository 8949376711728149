package controllers

import (
	"propman/dto"
	"propman/middleware"
	"propman/services"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth   *services.AuthService
	logger logger.Logger
}

func NewAuthController(auth *services.AuthService, log logger.Logger) AuthController {
	return AuthController{auth: auth, logger: log}
}

func (a AuthController) Register(c *gin.Context) {
	var input dto.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	resp, err := a.auth.Register(c.Request.Context(), input)
	replyCreated(c, a.logger, resp, err)
}

func (a AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	resp, err := a.auth.Login(c.Request.Context(), input)
	reply(c, a.logger, resp, err)
}

func (a AuthController) GoogleLogin(c *gin.Context) {
	var input dto.GoogleLoginInput
	if !bindJSON(c, &input) {
		return
	}
	resp, err := a.auth.GoogleLogin(c.Request.Context(), input)
	reply(c, a.logger, resp, err)
}

func (a AuthController) Me(c *gin.Context) {
	resp, err := a.auth.Me(c.Request.Context(), middleware.CallerFrom(c))
	reply(c, a.logger, resp, err)
}
