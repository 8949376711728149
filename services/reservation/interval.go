package reservation

import (
	"errors"
	"time"
)

var ErrEmptyInterval = errors.New("start must be before end")

// Interval khoảng thời gian nửa mở [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval trả về lỗi nếu start >= end
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrEmptyInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps: [s1,e1) và [s2,e2) giao nhau khi s1 < e2 && s2 < e1.
// Hai khoảng chạm mép (ngày trả phòng = ngày nhận phòng tiếp theo) không giao nhau.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Nights số đêm giữa hai mốc, tính theo ngày lịch
func (i Interval) Nights() int {
	start := truncateDay(i.Start)
	end := truncateDay(i.End)
	return int(end.Sub(start).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
