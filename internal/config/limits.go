package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AmountLimit caps the amount accepted for a single payment in one currency,
// in minor units.
type AmountLimit struct {
	Currency  string `mapstructure:"currency"`
	MaxAmount int64  `mapstructure:"maxAmount"`
}

// Limits is the operator-tunable acceptance policy for new payments.
// An empty PaymentMethods list allows every method; a currency without an
// AmountLimit entry is uncapped.
type Limits struct {
	AmountLimits   []AmountLimit `mapstructure:"amountLimits"`
	PaymentMethods []string      `mapstructure:"paymentMethods"`
}

func DefaultLimits() Limits {
	return Limits{}
}

// LimitsHolder exposes the current limits and follows file changes at runtime.
type LimitsHolder struct {
	current atomic.Value // holds Limits
}

func NewLimitsHolder(log *zap.Logger) (*LimitsHolder, error) {
	v := viper.New()

	v.SetConfigName("paylane")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/paylane")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PAYLANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &LimitsHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultLimits())
		return holder, nil
	}

	limits, err := unmarshalLimits(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(limits)

	v.OnConfigChange(func(in fsnotify.Event) {
		reloaded, err := unmarshalLimits(v)
		if err != nil {
			if log != nil {
				log.Warn("limits reload failed, keeping previous", zap.String("file", in.Name), zap.Error(err))
			}
			return
		}
		holder.current.Store(reloaded)
		if log != nil {
			log.Info("limits reloaded", zap.String("file", in.Name))
		}
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticLimitsHolder wraps fixed limits without any file watching.
func NewStaticLimitsHolder(limits Limits) *LimitsHolder {
	holder := &LimitsHolder{}
	holder.current.Store(limits)
	return holder
}

func unmarshalLimits(v *viper.Viper) (Limits, error) {
	var limits Limits
	if err := v.UnmarshalKey("limits", &limits); err != nil {
		return Limits{}, err
	}
	return limits, nil
}

func (h *LimitsHolder) Current() Limits {
	if h == nil {
		return DefaultLimits()
	}
	limits, ok := h.current.Load().(Limits)
	if !ok {
		return DefaultLimits()
	}
	return limits
}

// MaxAmount returns the configured cap for a currency, if any.
func (h *LimitsHolder) MaxAmount(currency string) (int64, bool) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	for _, limit := range h.Current().AmountLimits {
		if strings.ToUpper(strings.TrimSpace(limit.Currency)) == currency {
			return limit.MaxAmount, true
		}
	}
	return 0, false
}

// MethodAllowed reports whether a payment method passes the configured allowlist.
func (h *LimitsHolder) MethodAllowed(method string) bool {
	allowed := h.Current().PaymentMethods
	if len(allowed) == 0 {
		return true
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	for _, candidate := range allowed {
		if strings.ToUpper(strings.TrimSpace(candidate)) == method {
			return true
		}
	}
	return false
}
