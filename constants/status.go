package constants

// User role (global)
const (
	RoleUser       = 0
	RoleSuperAdmin = 1
)

// User status
const (
	UserStatusInactive = 0
	UserStatusActive   = 1
)

// MemberRole vai trò của user trong một tổ chức
type MemberRole string

const (
	MemberRoleOwner   MemberRole = "OWNER"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleStaff   MemberRole = "STAFF"
	MemberRoleTenant  MemberRole = "TENANT"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleManager, MemberRoleStaff, MemberRoleTenant:
		return true
	}
	return false
}

// PropertyStatus
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "AVAILABLE"
	PropertyStatusBooked      PropertyStatus = "BOOKED"
	PropertyStatusMaintenance PropertyStatus = "MAINTENANCE"
	PropertyStatusInactive    PropertyStatus = "INACTIVE"
)

// AcceptsReservations trả về false khi chỗ ở đang bảo trì hoặc ngừng hoạt động.
// BOOKED vẫn nhận đặt chỗ cho khoảng thời gian khác.
func (s PropertyStatus) AcceptsReservations() bool {
	return s == PropertyStatusAvailable || s == PropertyStatusBooked
}

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusBooked, PropertyStatusMaintenance, PropertyStatusInactive:
		return true
	}
	return false
}

// UnitStatus
type UnitStatus string

const (
	UnitStatusVacant      UnitStatus = "VACANT"
	UnitStatusOccupied    UnitStatus = "OCCUPIED"
	UnitStatusMaintenance UnitStatus = "MAINTENANCE"
)

func (s UnitStatus) AcceptsReservations() bool {
	return s == UnitStatusVacant || s == UnitStatusOccupied
}

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitStatusVacant, UnitStatusOccupied, UnitStatusMaintenance:
		return true
	}
	return false
}

// BookingStatus
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// BookingBlockingStatuses các trạng thái giữ chỗ
var BookingBlockingStatuses = []string{
	string(BookingStatusPending),
	string(BookingStatusConfirmed),
	string(BookingStatusCheckedIn),
}

func (s BookingStatus) Blocking() bool {
	return contains(BookingBlockingStatuses, string(s))
}

// TenancyStatus
type TenancyStatus string

const (
	TenancyStatusPending    TenancyStatus = "PENDING"
	TenancyStatusActive     TenancyStatus = "ACTIVE"
	TenancyStatusExpired    TenancyStatus = "EXPIRED"
	TenancyStatusTerminated TenancyStatus = "TERMINATED"
	TenancyStatusCancelled  TenancyStatus = "CANCELLED"
)

var TenancyBlockingStatuses = []string{
	string(TenancyStatusActive),
	string(TenancyStatusPending),
}

func (s TenancyStatus) Blocking() bool {
	return contains(TenancyBlockingStatuses, string(s))
}

// InvoiceStatus
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "UNPAID"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// Payment method
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
)

// Date layouts
const (
	DateLayout     = "2006-01-02"
	MonthLayout    = "01/2006"
	DateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
