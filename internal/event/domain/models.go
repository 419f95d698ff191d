package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"gorm.io/datatypes"
)

type Type string

const (
	TypePaymentCreated Type = "PAYMENT_CREATED"
	TypeStatusChanged  Type = "STATUS_CHANGED"

	// Reserved for finer-grained events; not emitted yet.
	TypeAuthorized Type = "AUTHORIZED"
	TypeCaptured   Type = "CAPTURED"
	TypeFailed     Type = "FAILED"
)

// Event is one append-only audit record. Rows are never mutated or deleted;
// retrieval is ordered by creation time ascending.
type Event struct {
	ID         snowflake.ID          `gorm:"primaryKey" json:"-"`
	PaymentID  string                `gorm:"column:payment_id;not null;index;size:64" json:"payment_id"`
	EventType  Type                  `gorm:"type:text;not null" json:"event_type"`
	FromStatus *paymentdomain.Status `gorm:"type:text" json:"from_status,omitempty"`
	ToStatus   paymentdomain.Status  `gorm:"type:text;not null" json:"to_status"`
	Payload    datatypes.JSON        `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt  time.Time             `gorm:"not null" json:"created_at"`
}

func (Event) TableName() string { return "payment_events" }
