package controllers

import (
	"strconv"

	"propman/dto"
	apperrors "propman/errors"
	"propman/middleware"
	"propman/response"
	"propman/services"
	"propman/services/logger"
	"propman/services/notification"
	"propman/validator"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// NotificationController quản lý phiên websocket theo tổ chức
type NotificationController struct {
	melody   *melody.Melody
	perms    services.PermissionChecker
	notifier notification.Service
	logger   logger.Logger
}

func NewNotificationController(m *melody.Melody, perms services.PermissionChecker, log logger.Logger) NotificationController {
	c := NotificationController{
		melody:   m,
		perms:    perms,
		notifier: notification.NewMelodyService(m),
		logger:   log,
	}
	m.HandleConnect(func(s *melody.Session) {
		log.Info("Phiên websocket đã đăng ký cho tổ chức %d", notification.SessionOrg(s))
	})
	m.HandleDisconnect(func(s *melody.Session) {
		log.Info("Đã đóng phiên websocket của tổ chức %d", notification.SessionOrg(s))
	})
	// client chỉ nhận, tin nhắn gửi lên bị bỏ qua trừ ping
	m.HandleMessage(func(s *melody.Session, msg []byte) {
		if string(msg) == "ping" {
			_ = s.Write([]byte("pong"))
		}
	})
	return c
}

// Connect nâng cấp kết nối lên websocket sau khi kiểm tra quyền đọc tổ chức
func (n NotificationController) Connect(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Query("orgId"), 10, 64)
	if err != nil || orgID == 0 {
		response.BadRequest(c, "orgId không hợp lệ")
		return
	}
	caller := middleware.CallerFrom(c)
	ok, err := n.perms.Has(c.Request.Context(), caller, uint(orgID), services.ResourceOrganization, services.ActionRead)
	if err != nil {
		response.FromError(c, n.logger, err)
		return
	}
	if !ok {
		response.Forbidden(c)
		return
	}

	keys := map[string]interface{}{
		notification.SessionOrgKey:  uint(orgID),
		notification.SessionUserKey: caller.UserID,
	}
	if err := n.melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		n.logger.Warn("Không nâng cấp được websocket: %v", err)
	}
}

// Announce gửi thông báo tự do tới mọi phiên của tổ chức
func (n NotificationController) Announce(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var req dto.AnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validator.Struct(req); err != nil {
		response.FromError(c, n.logger, err)
		return
	}
	allowed, err := n.perms.Has(c.Request.Context(), middleware.CallerFrom(c), orgID, services.ResourceOrganization, services.ActionUpdate)
	if err != nil {
		response.FromError(c, n.logger, err)
		return
	}
	if !allowed {
		response.Forbidden(c)
		return
	}

	msg := notification.NewMessageBuilder("organization.announcement").
		WithOrganization(orgID).
		WithMessage("%s", req.Message).
		Build()
	if err := n.notifier.Publish(orgID, msg); err != nil {
		response.FromError(c, n.logger, apperrors.StorageError("Lỗi gửi thông báo", err))
		return
	}
	response.Success(c, gin.H{"organizationId": orgID, "message": req.Message})
}
