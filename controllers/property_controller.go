package controllers

import (
	"propman/dto"
	"propman/middleware"
	"propman/response"
	"propman/services"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

type PropertyController struct {
	properties *services.PropertyService
	logger     logger.Logger
}

func NewPropertyController(properties *services.PropertyService, log logger.Logger) PropertyController {
	return PropertyController{properties: properties, logger: log}
}

func (p PropertyController) Create(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var req dto.CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := p.properties.Create(c.Request.Context(), middleware.CallerFrom(c), orgID, req)
	replyCreated(c, p.logger, property, err)
}

func (p PropertyController) List(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	list, err := p.properties.List(c.Request.Context(), middleware.CallerFrom(c), orgID)
	reply(c, p.logger, list, err)
}

func (p PropertyController) Search(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	results, err := p.properties.Search(c.Request.Context(), middleware.CallerFrom(c), orgID, c.Query("q"))
	reply(c, p.logger, results, err)
}

func (p PropertyController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	property, err := p.properties.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	reply(c, p.logger, property, err)
}

func (p PropertyController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := p.properties.UpdateStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
	reply(c, p.logger, property, err)
}

// UploadImage nhận multipart field "file"
func (p PropertyController) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Không tìm thấy file")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "Ảnh không được vượt quá 5MB")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Không thể mở file")
		return
	}
	defer src.Close()

	property, err := p.properties.UploadImage(c.Request.Context(), middleware.CallerFrom(c), id, src)
	reply(c, p.logger, property, err)
}

// Units

func (p PropertyController) CreateUnit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	unit, err := p.properties.CreateUnit(c.Request.Context(), middleware.CallerFrom(c), id, req)
	replyCreated(c, p.logger, unit, err)
}

func (p PropertyController) ListUnits(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	units, err := p.properties.ListUnits(c.Request.Context(), middleware.CallerFrom(c), id)
	reply(c, p.logger, units, err)
}

func (p PropertyController) UpdateUnitStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	unit, err := p.properties.UpdateUnitStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
	reply(c, p.logger, unit, err)
}
