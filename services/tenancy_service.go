package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman/builders"
	"propman/commands"
	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/repositories"
	"propman/services/logger"
	"propman/services/notification"
	"propman/services/reservation"
	"propman/validator"
)

const partyTenant = "người thuê"

type TenancyServiceOptions struct {
	Tenancies   TenancyStore
	Properties  PropertyStore
	Users       UserStore
	Tx          Transactor
	Permissions PermissionChecker
	Cache       Cache
	Notifier    notification.Service
	Logger      logger.Logger
}

type TenancyService struct {
	tenancies   TenancyStore
	properties  PropertyStore
	users       UserStore
	tx          Transactor
	permissions PermissionChecker
	cache       Cache
	notifier    notification.Service
	logger      logger.Logger
	checker     *reservation.Checker
}

func NewTenancyService(opts TenancyServiceOptions) *TenancyService {
	s := &TenancyService{
		tenancies:   opts.Tenancies,
		properties:  opts.Properties,
		users:       opts.Users,
		tx:          opts.Tx,
		permissions: opts.Permissions,
		cache:       opts.Cache,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		checker:     reservation.NewChecker(tenancyFinder{tenancies: opts.Tenancies}),
	}
	if s.cache == nil {
		s.cache = NopCache{}
	}
	if s.notifier == nil {
		s.notifier = notification.Nop{}
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	return s
}

// Create tạo hợp đồng thuê, cùng thứ tự kiểm tra như booking với người thuê và căn hộ
func (s *TenancyService) Create(ctx context.Context, caller Caller, req dto.CreateTenancyRequest) (*models.Tenancy, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	start, end, err := validator.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	term, err := reservation.NewInterval(start, end)
	if err != nil {
		return nil, apperrors.ValidationError("Ngày kết thúc phải sau ngày bắt đầu")
	}

	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập để tạo hợp đồng thuê")
	}

	unit, err := s.properties.FindUnit(ctx, req.UnitID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy căn hộ")
	}
	if unit.Property == nil {
		return nil, apperrors.NotFoundError("Không tìm thấy chỗ ở của căn hộ")
	}
	orgID := unit.Property.OrganizationID
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceTenancy, ActionCreate); err != nil {
		return nil, err
	}

	tenant, err := s.eligibleTenant(ctx, req.TenantID, orgID)
	if err != nil {
		return nil, err
	}

	if !unit.Status.AcceptsReservations() {
		return nil, apperrors.StateError(fmt.Sprintf("Căn hộ %s đang ở trạng thái %s, không nhận hợp đồng", unit.Name, unit.Status))
	}

	var tenancy *models.Tenancy
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.properties.LockUnit(ctx, unit.ID)
		if err != nil {
			return storageErr(err, "Không tìm thấy căn hộ")
		}
		if !locked.Status.AcceptsReservations() {
			return apperrors.StateError(fmt.Sprintf("Căn hộ %s đang ở trạng thái %s, không nhận hợp đồng", locked.Name, locked.Status))
		}

		conflict, err := s.checker.Evaluate(ctx, locked.ID, tenant.ID, term, constants.TenancyBlockingStatuses)
		if err != nil {
			return apperrors.StorageError("Không thể kiểm tra lịch thuê", err)
		}
		if conflict != nil {
			return apperrors.ConflictError(conflict.Message(partyTenant))
		}

		tenancy = builders.NewTenancyBuilder().
			WithUnit(locked, orgID).
			WithTenant(tenant.ID).
			WithTerm(term).
			WithRent(req.MonthlyRent, req.Deposit).
			WithStatus(constants.TenancyStatus(req.Status)).
			WithCreator(caller.UserID).
			Build()
		if err := commands.NewCreateTenancyCommand(s.tenancies, tenancy).Execute(ctx); err != nil {
			return err
		}
		return s.syncUnitStatus(ctx, locked)
	})
	if err != nil {
		return nil, s.writeError(ctx, err, unit.ID, term)
	}

	tenancy.Tenant = tenant
	s.afterWrite(ctx, "tenancy.created", tenancy, unit.PropertyID)
	s.logger.Info("Tạo hợp đồng thuê #%d cho căn hộ %d", tenancy.ID, tenancy.UnitID)
	return tenancy, nil
}

// eligibleTenant người thuê phải tồn tại, đang hoạt động và là thành viên TENANT của tổ chức
func (s *TenancyService) eligibleTenant(ctx context.Context, userID, orgID uint) (*models.User, error) {
	tenant, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy người thuê")
	}
	if tenant.Status != constants.UserStatusActive {
		return nil, apperrors.StateError(fmt.Sprintf("Tài khoản %s đang bị khóa", tenant.Name))
	}
	m, err := s.users.FindMembership(ctx, userID, orgID)
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		return nil, apperrors.StateError(fmt.Sprintf("%s chưa là người thuê của tổ chức", tenant.Name))
	}
	if err != nil {
		return nil, storageErr(err, "")
	}
	if m.Role != constants.MemberRoleTenant || !m.Active() {
		return nil, apperrors.StateError(fmt.Sprintf("%s chưa là người thuê của tổ chức", tenant.Name))
	}
	return tenant, nil
}

func (s *TenancyService) writeError(ctx context.Context, err error, unitID uint, term reservation.Interval) error {
	if !errors.Is(err, apperrors.ErrOverlapViolation) {
		return storageErr(err, "")
	}
	conflict, checkErr := s.checker.Check(ctx, unitID, term, constants.TenancyBlockingStatuses)
	if checkErr == nil && conflict != nil {
		return apperrors.NewAppError(apperrors.ErrCodeConflict, conflict.Message(partyTenant), err)
	}
	return apperrors.NewAppError(apperrors.ErrCodeConflict, "Căn hộ vừa được cho thuê trong khoảng thời gian này", err)
}

// syncUnitStatus OCCUPIED khi có hợp đồng ACTIVE, VACANT khi không; căn hộ bảo trì giữ nguyên
func (s *TenancyService) syncUnitStatus(ctx context.Context, unit *models.Unit) error {
	if unit.Status == constants.UnitStatusMaintenance {
		return nil
	}
	active, err := s.tenancies.FindBlocking(ctx, unit.ID, []string{string(constants.TenancyStatusActive)})
	if err != nil {
		return err
	}
	want := constants.UnitStatusVacant
	if len(active) > 0 {
		want = constants.UnitStatusOccupied
	}
	if want == unit.Status {
		return nil
	}
	if err := s.properties.UpdateUnitStatus(ctx, unit.ID, want); err != nil {
		return err
	}
	unit.Status = want
	return nil
}

func (s *TenancyService) ChangeStatus(ctx context.Context, caller Caller, id uint, status string) (*models.Tenancy, error) {
	target := constants.TenancyStatus(status)
	switch target {
	case constants.TenancyStatusActive, constants.TenancyStatusExpired,
		constants.TenancyStatusTerminated, constants.TenancyStatusCancelled:
	default:
		return nil, apperrors.ValidationError(fmt.Sprintf("Trạng thái %q không hợp lệ", status))
	}

	tenancy, err := s.tenancies.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy hợp đồng thuê")
	}
	if err := authorize(ctx, s.permissions, caller, tenancy.OrganizationID, ResourceTenancy, ActionUpdate); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, tenancy, target); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "tenancy.status", tenancy, 0)
	return tenancy, nil
}

func (s *TenancyService) transition(ctx context.Context, tenancy *models.Tenancy, target constants.TenancyStatus) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		unit, err := s.properties.LockUnit(ctx, tenancy.UnitID)
		if err != nil {
			return storageErr(err, "Không tìm thấy căn hộ")
		}
		if err := commands.NewTransitionTenancyCommand(s.tenancies, tenancy, target).Execute(ctx); err != nil {
			return err
		}
		return s.syncUnitStatus(ctx, unit)
	})
	if errors.Is(err, apperrors.ErrInvalidTransition) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidState,
			fmt.Sprintf("Không thể chuyển hợp đồng từ %s sang %s", tenancy.Status, target), err)
	}
	return storageErr(err, "")
}

// Get người thuê xem được hợp đồng của chính mình
func (s *TenancyService) Get(ctx context.Context, caller Caller, id uint) (*models.Tenancy, error) {
	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập")
	}
	tenancy, err := s.tenancies.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy hợp đồng thuê")
	}
	if tenancy.TenantID == caller.UserID {
		return tenancy, nil
	}
	if err := authorize(ctx, s.permissions, caller, tenancy.OrganizationID, ResourceTenancy, ActionRead); err != nil {
		return nil, err
	}
	return tenancy, nil
}

func (s *TenancyService) List(ctx context.Context, caller Caller, orgID uint, q dto.TenancyQuery) (dto.ListResult[models.Tenancy], error) {
	var empty dto.ListResult[models.Tenancy]
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceTenancy, ActionRead); err != nil {
		return empty, err
	}
	filter := repositories.TenancyFilter{
		OrganizationID: orgID,
		UnitID:         q.UnitID,
		TenantID:       q.TenantID,
		Status:         constants.TenancyStatus(q.Status),
		Page:           pageOf(q.Page, q.Limit),
	}
	items, total, err := s.tenancies.List(ctx, filter)
	if err != nil {
		return empty, storageErr(err, "")
	}
	return listResult(items, total, filter.Page), nil
}

// ListForTenant các hợp đồng của người gọi ở mọi tổ chức
func (s *TenancyService) ListForTenant(ctx context.Context, caller Caller, q dto.PageQuery) (dto.ListResult[models.Tenancy], error) {
	var empty dto.ListResult[models.Tenancy]
	if !caller.Authenticated() {
		return empty, apperrors.AuthError("Bạn cần đăng nhập")
	}
	page := pageOf(q.Page, q.Limit)
	items, total, err := s.tenancies.List(ctx, repositories.TenancyFilter{TenantID: caller.UserID, Page: page})
	if err != nil {
		return empty, storageErr(err, "")
	}
	return listResult(items, total, page), nil
}

// ExpireEnded chuyển các hợp đồng ACTIVE đã qua ngày kết thúc sang EXPIRED
func (s *TenancyService) ExpireEnded(ctx context.Context, now time.Time) (int, error) {
	list, err := s.tenancies.ListEndedBefore(ctx, now)
	if err != nil {
		return 0, storageErr(err, "")
	}
	done := 0
	for i := range list {
		t := &list[i]
		if err := s.transition(ctx, t, constants.TenancyStatusExpired); err != nil {
			s.logger.Error("Không thể kết thúc hợp đồng #%d: %v", t.ID, err)
			continue
		}
		s.afterWrite(ctx, "tenancy.status", t, 0)
		done++
	}
	return done, nil
}

func (s *TenancyService) afterWrite(ctx context.Context, event string, t *models.Tenancy, propertyID uint) {
	tags := []string{orgTag("tenancies", t.OrganizationID), orgTag("units", t.OrganizationID), unitTag(t.UnitID)}
	if propertyID != 0 {
		tags = append(tags, propertyTag(propertyID))
	}
	invalidate(ctx, s.cache, s.logger, tags...)

	msg := notification.NewMessageBuilder(event).
		WithOrganization(t.OrganizationID).
		WithReservation(t.UnitID, t.ID, string(t.Status)).
		WithMessage("Hợp đồng #%d (%s–%s): %s", t.ID,
			t.StartDate.UTC().Format(constants.DateLayout), t.EndDate.UTC().Format(constants.DateLayout), t.Status).
		Build()
	if err := s.notifier.Publish(t.OrganizationID, msg); err != nil {
		s.logger.Warn("Không gửi được thông báo hợp đồng #%d: %v", t.ID, err)
	}
}
