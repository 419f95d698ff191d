package config

import "testing"

func TestLimitsHolder_NilIsPermissive(t *testing.T) {
	var h *LimitsHolder

	if !h.MethodAllowed("CARD") {
		t.Fatal("nil holder must allow every method")
	}
	if _, ok := h.MaxAmount("USD"); ok {
		t.Fatal("nil holder must not cap any currency")
	}
}

func TestLimitsHolder_MaxAmount(t *testing.T) {
	h := NewStaticLimitsHolder(Limits{
		AmountLimits: []AmountLimit{{Currency: "usd", MaxAmount: 1000}},
	})

	max, ok := h.MaxAmount(" USD ")
	if !ok || max != 1000 {
		t.Fatalf("expected cap 1000, got %d ok=%v", max, ok)
	}
	if _, ok := h.MaxAmount("EUR"); ok {
		t.Fatal("EUR has no configured cap")
	}
}

func TestLimitsHolder_MethodAllowlist(t *testing.T) {
	open := NewStaticLimitsHolder(Limits{})
	if !open.MethodAllowed("ANYTHING") {
		t.Fatal("empty allowlist must allow every method")
	}

	h := NewStaticLimitsHolder(Limits{PaymentMethods: []string{"card", "WIRE"}})
	if !h.MethodAllowed("CARD") || !h.MethodAllowed(" wire ") {
		t.Fatal("allowlist comparison must be case-insensitive")
	}
	if h.MethodAllowed("CRYPTO") {
		t.Fatal("unlisted method must be rejected")
	}
}
