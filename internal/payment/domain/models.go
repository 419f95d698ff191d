package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Payment struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"-"`
	PaymentID      string       `gorm:"column:payment_id;uniqueIndex;not null;size:64" json:"payment_id"`
	IdempotencyKey string       `gorm:"column:idempotency_key;not null;size:128" json:"-"`
	PaymentMethod  string       `gorm:"not null;size:32" json:"payment_method"`
	Amount         int64        `gorm:"not null" json:"amount"`
	Currency       string       `gorm:"not null;size:3" json:"currency"`
	Status         Status       `gorm:"type:text;not null" json:"status"`
	Description    string       `gorm:"size:255" json:"description,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

type CreatePaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description,omitempty"`
}

type CreatePaymentResponse struct {
	PaymentID string    `json:"payment_id"`
	Status    Status    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentResponse struct {
	PaymentID string    `json:"payment_id"`
	Status    Status    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventResponse struct {
	EventType  string          `json:"event_type"`
	FromStatus *Status         `json:"from_status,omitempty"`
	ToStatus   Status          `json:"to_status"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}
