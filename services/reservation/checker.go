// Package reservation kiểm tra trùng lịch giữa một khoảng thời gian mới và các đặt chỗ đang giữ chỗ
// của cùng một tài nguyên (chỗ ở cho booking, căn hộ cho hợp đồng thuê).
package reservation

import (
	"context"
	"fmt"
	"time"
)

const dateFormat = "2006-01-02"

// Reservation dạng chung của Booking và Tenancy
type Reservation struct {
	ID         uint
	ResourceID uint
	PartyID    uint
	PartyName  string
	Start      time.Time
	End        time.Time
	Status     string
}

func (r Reservation) Interval() Interval {
	return Interval{Start: r.Start, End: r.End}
}

// Finder đọc các đặt chỗ của một tài nguyên theo tập trạng thái
type Finder interface {
	FindBlocking(ctx context.Context, resourceID uint, statuses []string) ([]Reservation, error)
}

// Conflict thông tin đặt chỗ gây xung đột
type Conflict struct {
	ReservationID uint
	PartyName     string
	Start         time.Time
	End           time.Time
	// Duplicate: chính người yêu cầu đã có đặt chỗ đang giữ chỗ trên tài nguyên này
	Duplicate bool
}

// Range dạng "2024-06-01–2024-06-05", luôn theo ngày UTC như khi parse
func (c *Conflict) Range() string {
	return c.Start.UTC().Format(dateFormat) + "–" + c.End.UTC().Format(dateFormat)
}

// Message thông báo cho người dùng, party là cách gọi người đặt ("khách", "người thuê")
func (c *Conflict) Message(party string) string {
	if c.Duplicate {
		return fmt.Sprintf("%s %s đã có đặt chỗ #%d còn hiệu lực trên tài nguyên này (%s)",
			party, c.PartyName, c.ReservationID, c.Range())
	}
	return fmt.Sprintf("Trùng lịch với đặt chỗ #%d của %s %s (%s)",
		c.ReservationID, party, c.PartyName, c.Range())
}

type Checker struct {
	finder Finder
}

func NewChecker(finder Finder) *Checker {
	return &Checker{finder: finder}
}

// Check trả về nil nếu candidate không giao với đặt chỗ nào có trạng thái thuộc statuses.
// Lỗi chỉ đến từ tầng lưu trữ.
func (c *Checker) Check(ctx context.Context, resourceID uint, candidate Interval, statuses []string) (*Conflict, error) {
	existing, err := c.finder.FindBlocking(ctx, resourceID, statuses)
	if err != nil {
		return nil, err
	}
	return FirstOverlap(existing, candidate, statuses), nil
}

// Evaluate chạy kiểm tra trùng người đặt rồi kiểm tra trùng lịch trên cùng một lần đọc.
func (c *Checker) Evaluate(ctx context.Context, resourceID, partyID uint, candidate Interval, statuses []string) (*Conflict, error) {
	existing, err := c.finder.FindBlocking(ctx, resourceID, statuses)
	if err != nil {
		return nil, err
	}
	if dup := FirstByParty(existing, partyID, statuses); dup != nil {
		return dup, nil
	}
	return FirstOverlap(existing, candidate, statuses), nil
}

// FirstOverlap đặt chỗ đầu tiên (theo thứ tự bắt đầu) giao với candidate
func FirstOverlap(existing []Reservation, candidate Interval, statuses []string) *Conflict {
	var found *Reservation
	for i := range existing {
		r := existing[i]
		if !isBlocking(r.Status, statuses) || !candidate.Overlaps(r.Interval()) {
			continue
		}
		if found == nil || r.Start.Before(found.Start) {
			found = &existing[i]
		}
	}
	if found == nil {
		return nil
	}
	return toConflict(*found, false)
}

func FirstByParty(existing []Reservation, partyID uint, statuses []string) *Conflict {
	for _, r := range existing {
		if r.PartyID == partyID && isBlocking(r.Status, statuses) {
			return toConflict(r, true)
		}
	}
	return nil
}

func toConflict(r Reservation, duplicate bool) *Conflict {
	return &Conflict{
		ReservationID: r.ID,
		PartyName:     r.PartyName,
		Start:         r.Start,
		End:           r.End,
		Duplicate:     duplicate,
	}
}

func isBlocking(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
