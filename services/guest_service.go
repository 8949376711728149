package services

import (
	"context"
	"strings"

	"propman/dto"
	"propman/models"
	"propman/services/logger"
	"propman/validator"
)

type GuestService struct {
	guests      GuestStore
	permissions PermissionChecker
	logger      logger.Logger
}

func NewGuestService(guests GuestStore, permissions PermissionChecker, log logger.Logger) *GuestService {
	if log == nil {
		log = logger.Nop{}
	}
	return &GuestService{guests: guests, permissions: permissions, logger: log}
}

func (s *GuestService) Create(ctx context.Context, caller Caller, orgID uint, req dto.CreateGuestRequest) (*models.Guest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceGuest, ActionCreate); err != nil {
		return nil, err
	}
	guest := &models.Guest{
		OrganizationID: orgID,
		Name:           req.Name,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		IsActive:       true,
	}
	if err := s.guests.Create(ctx, guest); err != nil {
		return nil, storageErr(err, "")
	}
	s.logger.Info("Tạo khách %d cho tổ chức %d", guest.ID, orgID)
	return guest, nil
}

func (s *GuestService) Get(ctx context.Context, caller Caller, id uint) (*models.Guest, error) {
	guest, err := s.guests.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy khách")
	}
	if err := authorize(ctx, s.permissions, caller, guest.OrganizationID, ResourceGuest, ActionRead); err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *GuestService) List(ctx context.Context, caller Caller, orgID uint, q dto.GuestQuery) (dto.ListResult[models.Guest], error) {
	var empty dto.ListResult[models.Guest]
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceGuest, ActionRead); err != nil {
		return empty, err
	}
	page := pageOf(q.Page, q.Limit)
	items, total, err := s.guests.ListByOrganization(ctx, orgID, strings.TrimSpace(q.Search), page)
	if err != nil {
		return empty, storageErr(err, "")
	}
	return listResult(items, total, page), nil
}

// SetActive khóa/mở khách; khách bị khóa không thể đặt chỗ mới
func (s *GuestService) SetActive(ctx context.Context, caller Caller, id uint, active bool) (*models.Guest, error) {
	guest, err := s.guests.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy khách")
	}
	if err := authorize(ctx, s.permissions, caller, guest.OrganizationID, ResourceGuest, ActionUpdate); err != nil {
		return nil, err
	}
	guest.IsActive = active
	if err := s.guests.Save(ctx, guest); err != nil {
		return nil, storageErr(err, "")
	}
	return guest, nil
}
