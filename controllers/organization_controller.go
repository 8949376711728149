package controllers

import (
	"propman/dto"
	"propman/middleware"
	"propman/response"
	"propman/services"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

type OrganizationController struct {
	orgs   *services.OrganizationService
	guests *services.GuestService
	logger logger.Logger
}

func NewOrganizationController(orgs *services.OrganizationService, guests *services.GuestService, log logger.Logger) OrganizationController {
	return OrganizationController{orgs: orgs, guests: guests, logger: log}
}

func (o OrganizationController) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	org, err := o.orgs.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	replyCreated(c, o.logger, org, err)
}

func (o OrganizationController) ListMine(c *gin.Context) {
	list, err := o.orgs.ListForUser(c.Request.Context(), middleware.CallerFrom(c))
	reply(c, o.logger, list, err)
}

func (o OrganizationController) Get(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	org, err := o.orgs.Get(c.Request.Context(), middleware.CallerFrom(c), orgID)
	reply(c, o.logger, org, err)
}

func (o OrganizationController) AddMember(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := o.orgs.AddMember(c.Request.Context(), middleware.CallerFrom(c), orgID, req)
	replyCreated(c, o.logger, m, err)
}

// Guests

func (o OrganizationController) CreateGuest(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var req dto.CreateGuestRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := o.guests.Create(c.Request.Context(), middleware.CallerFrom(c), orgID, req)
	replyCreated(c, o.logger, g, err)
}

func (o OrganizationController) ListGuests(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var q dto.GuestQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := o.guests.List(c.Request.Context(), middleware.CallerFrom(c), orgID, q)
	reply(c, o.logger, list, err)
}

func (o OrganizationController) GetGuest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := o.guests.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	reply(c, o.logger, g, err)
}

func (o OrganizationController) SetGuestActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.IsActive == nil {
		response.BadRequest(c, "isActive không được để trống")
		return
	}
	g, err := o.guests.SetActive(c.Request.Context(), middleware.CallerFrom(c), id, *req.IsActive)
	reply(c, o.logger, g, err)
}
