package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/services/logger"
	"propman/validator"
)

type OrganizationService struct {
	users       UserStore
	permissions PermissionChecker
	logger      logger.Logger
}

func NewOrganizationService(users UserStore, permissions PermissionChecker, log logger.Logger) *OrganizationService {
	if log == nil {
		log = logger.Nop{}
	}
	return &OrganizationService{users: users, permissions: permissions, logger: log}
}

// Create tạo tổ chức, người tạo trở thành OWNER
func (s *OrganizationService) Create(ctx context.Context, caller Caller, req dto.CreateOrganizationRequest) (*models.Organization, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập để thực hiện thao tác này")
	}
	org := &models.Organization{Name: strings.TrimSpace(req.Name), OwnerID: caller.UserID}
	owner := &models.Membership{
		UserID: caller.UserID,
		Role:   constants.MemberRoleOwner,
		Status: constants.UserStatusActive,
	}
	if err := s.users.CreateOrganization(ctx, org, owner); err != nil {
		return nil, storageErr(err, "")
	}
	s.logger.Info("User %d tạo tổ chức %d", caller.UserID, org.ID)
	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, caller Caller, id uint) (*models.Organization, error) {
	org, err := s.users.FindOrganization(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy tổ chức")
	}
	if err := authorize(ctx, s.permissions, caller, org.ID, ResourceOrganization, ActionRead); err != nil {
		return nil, err
	}
	return org, nil
}

// AddMember thêm user đã đăng ký vào tổ chức theo email
func (s *OrganizationService) AddMember(ctx context.Context, caller Caller, orgID uint, req dto.AddMemberRequest) (*models.Membership, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.users.FindOrganization(ctx, orgID); err != nil {
		return nil, storageErr(err, "Không tìm thấy tổ chức")
	}
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceMember, ActionCreate); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err, fmt.Sprintf("Không tìm thấy người dùng với email %s", email))
	}
	m := &models.Membership{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           constants.MemberRole(req.Role),
		Status:         constants.UserStatusActive,
	}
	err = s.users.AddMembership(ctx, m)
	if errors.Is(err, apperrors.ErrDuplicateRecord) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeConflict,
			fmt.Sprintf("%s đã là thành viên của tổ chức", email), err)
	}
	if err != nil {
		return nil, storageErr(err, "")
	}
	m.User = user
	return m, nil
}

// ListForUser các tổ chức mà caller là thành viên
func (s *OrganizationService) ListForUser(ctx context.Context, caller Caller) ([]models.Membership, error) {
	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập để thực hiện thao tác này")
	}
	list, err := s.users.ListMemberships(ctx, caller.UserID)
	if err != nil {
		return nil, storageErr(err, "")
	}
	return list, nil
}
