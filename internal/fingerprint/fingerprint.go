// Package fingerprint derives a stable digest of a creation request's semantic
// fields. Two requests with the same fields always hash identically, so a
// reused idempotency key carrying a different payload can be detected.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/paylane/paylane/internal/payment/domain"
)

// canonical fixes the field order and normalization of the hashed form.
type canonical struct {
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
}

func Compute(req domain.CreatePaymentRequest) string {
	data, _ := json.Marshal(canonical{
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Amount:        req.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Description:   strings.TrimSpace(req.Description),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
