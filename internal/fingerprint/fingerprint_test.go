package fingerprint

import (
	"testing"

	"github.com/paylane/paylane/internal/payment/domain"
)

func TestCompute_Deterministic(t *testing.T) {
	req := domain.CreatePaymentRequest{
		PaymentMethod: "CARD",
		Amount:        2500,
		Currency:      "USD",
		Description:   "order #42",
	}
	if Compute(req) != Compute(req) {
		t.Fatal("identical requests must hash identically")
	}
	if len(Compute(req)) != 64 {
		t.Fatalf("expected hex sha-256, got %q", Compute(req))
	}
}

func TestCompute_NormalizesWhitespaceAndCase(t *testing.T) {
	a := domain.CreatePaymentRequest{PaymentMethod: "CARD", Amount: 100, Currency: "usd", Description: "x"}
	b := domain.CreatePaymentRequest{PaymentMethod: " CARD ", Amount: 100, Currency: " USD", Description: " x "}
	if Compute(a) != Compute(b) {
		t.Fatal("normalization must make these equivalent")
	}
}

func TestCompute_DistinguishesPayloads(t *testing.T) {
	base := domain.CreatePaymentRequest{PaymentMethod: "CARD", Amount: 100, Currency: "USD"}

	changed := base
	changed.Amount = 101
	if Compute(base) == Compute(changed) {
		t.Fatal("amount change must change the fingerprint")
	}

	changed = base
	changed.Currency = "EUR"
	if Compute(base) == Compute(changed) {
		t.Fatal("currency change must change the fingerprint")
	}
}
