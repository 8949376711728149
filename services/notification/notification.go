package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// SessionOrgKey khóa lưu tổ chức mà phiên websocket đã đăng ký
const SessionOrgKey = "orgId"

// SessionUserKey khóa lưu user của phiên websocket
const SessionUserKey = "userId"

type Service interface {
	Publish(orgID uint, message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// Publish chỉ gửi tới các phiên đã đăng ký cùng tổ chức
func (s *MelodyService) Publish(orgID uint, message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter([]byte(message), func(session *melody.Session) bool {
		return SessionOrg(session) == orgID
	})
}

// SessionOrg tổ chức của phiên, 0 nếu phiên chưa đăng ký
func SessionOrg(session *melody.Session) uint {
	v, ok := session.Get(SessionOrgKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// Nop bỏ qua mọi thông báo
type Nop struct{}

func (Nop) Publish(uint, string) error { return nil }

// Event sự kiện đặt chỗ gửi tới client qua websocket
type Event struct {
	Type           string    `json:"type"`
	OrganizationID uint      `json:"organizationId"`
	ResourceID     uint      `json:"resourceId"`
	ReservationID  uint      `json:"reservationId"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	At             time.Time `json:"at"`
}

type MessageBuilder struct {
	event Event
}

func NewMessageBuilder(eventType string) *MessageBuilder {
	return &MessageBuilder{event: Event{Type: eventType, At: time.Now()}}
}

func (b *MessageBuilder) WithOrganization(id uint) *MessageBuilder {
	b.event.OrganizationID = id
	return b
}

func (b *MessageBuilder) WithReservation(resourceID, reservationID uint, status string) *MessageBuilder {
	b.event.ResourceID = resourceID
	b.event.ReservationID = reservationID
	b.event.Status = status
	return b
}

func (b *MessageBuilder) WithMessage(format string, args ...any) *MessageBuilder {
	b.event.Message = fmt.Sprintf(format, args...)
	return b
}

func (b *MessageBuilder) Build() string {
	data, err := json.Marshal(b.event)
	if err != nil {
		return "🔔 " + b.event.Message
	}
	return string(data)
}
