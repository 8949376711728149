package services

import (
	"context"
	"errors"

	"propman/constants"
	apperrors "propman/errors"
	"propman/models"
)

// Caller người gọi đã xác thực, lấy từ token
type Caller struct {
	UserID uint
	Role   int
}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}

func (c Caller) SuperAdmin() bool {
	return c.Role == constants.RoleSuperAdmin
}

type Resource string

const (
	ResourceOrganization Resource = "organization"
	ResourceMember       Resource = "member"
	ResourceProperty     Resource = "property"
	ResourceUnit         Resource = "unit"
	ResourceGuest        Resource = "guest"
	ResourceBooking      Resource = "booking"
	ResourceTenancy      Resource = "tenancy"
	ResourceInvoice      Resource = "invoice"
	ResourcePayment      Resource = "payment"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// PermissionChecker kiểm tra quyền của caller trên tài nguyên của một tổ chức
type PermissionChecker interface {
	Has(ctx context.Context, caller Caller, orgID uint, resource Resource, action Action) (bool, error)
}

type MembershipFinder interface {
	FindMembership(ctx context.Context, userID, orgID uint) (*models.Membership, error)
}

var (
	allActions = []Action{ActionRead, ActionCreate, ActionUpdate}
	readOnly   = []Action{ActionRead}
)

// DefaultRoleMatrix quyền theo vai trò thành viên
var DefaultRoleMatrix = map[constants.MemberRole]map[Resource][]Action{
	constants.MemberRoleOwner: {
		ResourceOrganization: allActions,
		ResourceMember:       allActions,
		ResourceProperty:     allActions,
		ResourceUnit:         allActions,
		ResourceGuest:        allActions,
		ResourceBooking:      allActions,
		ResourceTenancy:      allActions,
		ResourceInvoice:      allActions,
		ResourcePayment:      allActions,
	},
	constants.MemberRoleManager: {
		ResourceOrganization: readOnly,
		ResourceMember:       readOnly,
		ResourceProperty:     allActions,
		ResourceUnit:         allActions,
		ResourceGuest:        allActions,
		ResourceBooking:      allActions,
		ResourceTenancy:      allActions,
		ResourceInvoice:      allActions,
		ResourcePayment:      allActions,
	},
	constants.MemberRoleStaff: {
		ResourceOrganization: readOnly,
		ResourceProperty:     readOnly,
		ResourceUnit:         readOnly,
		ResourceGuest:        allActions,
		ResourceBooking:      allActions,
	},
	// người thuê chỉ xem hợp đồng và hóa đơn của chính mình, không qua bảng này
	constants.MemberRoleTenant: {
		ResourceOrganization: readOnly,
	},
}

// RoleChecker quyền dựa trên membership và bảng vai trò
type RoleChecker struct {
	members MembershipFinder
	matrix  map[constants.MemberRole]map[Resource][]Action
}

func NewRoleChecker(members MembershipFinder) *RoleChecker {
	return &RoleChecker{members: members, matrix: DefaultRoleMatrix}
}

func (r *RoleChecker) Has(ctx context.Context, caller Caller, orgID uint, resource Resource, action Action) (bool, error) {
	if !caller.Authenticated() {
		return false, nil
	}
	if caller.SuperAdmin() {
		return true, nil
	}

	m, err := r.members.FindMembership(ctx, caller.UserID, orgID)
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !m.Active() {
		return false, nil
	}
	for _, a := range r.matrix[m.Role][resource] {
		if a == action {
			return true, nil
		}
	}
	return false, nil
}

// authorize bước xác thực và phân quyền dùng chung cho các service
func authorize(ctx context.Context, perms PermissionChecker, caller Caller, orgID uint, resource Resource, action Action) error {
	if !caller.Authenticated() {
		return apperrors.AuthError("Bạn cần đăng nhập để thực hiện thao tác này")
	}
	ok, err := perms.Has(ctx, caller, orgID, resource, action)
	if err != nil {
		return apperrors.StorageError("Không thể kiểm tra quyền truy cập", err)
	}
	if !ok {
		return apperrors.ForbiddenError("Bạn không có quyền thực hiện thao tác này")
	}
	return nil
}

// storageErr bọc lỗi tầng lưu trữ; not found được chuyển thành NotFoundError với thông báo notFoundMsg
func storageErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, apperrors.ErrRecordNotFound) && notFoundMsg != "" {
		return apperrors.NewAppError(apperrors.ErrCodeNotFound, notFoundMsg, err)
	}
	return apperrors.StorageError("Lỗi truy cập dữ liệu", err)
}
