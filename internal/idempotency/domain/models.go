package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Outcome is the lifecycle state of an idempotency record. It only moves
// forward: IN_PROGRESS -> SUCCEEDED or FAILED.
type Outcome string

const (
	OutcomeInProgress Outcome = "IN_PROGRESS"
	OutcomeSucceeded  Outcome = "SUCCEEDED"
	OutcomeFailed     Outcome = "FAILED"
)

func (o Outcome) Terminal() bool {
	return o == OutcomeSucceeded || o == OutcomeFailed
}

// Record guards one logical creation request. The unique key column is the
// serialization point for racing retries.
type Record struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"-"`
	Token        string         `gorm:"column:idempotency_key;uniqueIndex;not null;size:128" json:"idempotency_key"`
	RequestHash  string         `gorm:"not null;size:64" json:"-"`
	Status       Outcome        `gorm:"type:text;not null" json:"status"`
	ResponseCode *int           `gorm:"column:response_code" json:"response_code,omitempty"`
	ResponseBody datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Record) TableName() string { return "idempotency_keys" }

// Decision is the outcome of admitting a token before the protected side
// effect runs.
type Decision struct {
	// Token is the normalized (or generated) idempotency key.
	Token string
	// Proceed is true when this call won the record and must perform the side
	// effect, then Commit the outcome.
	Proceed bool
	// ResponseCode and ResponseBody replay the stored result of a previously
	// succeeded attempt when Proceed is false.
	ResponseCode int
	ResponseBody []byte
}
