// Package notify carries user-facing signals (the success, warning and error
// messages a UI shows as toasts) alongside a request.
package notify

import (
	"context"
	"sync"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Signal struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Collector accumulates the signals raised while serving one request.
type Collector struct {
	mu      sync.Mutex
	signals []Signal
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) add(s Signal) {
	c.mu.Lock()
	c.signals = append(c.signals, s)
	c.mu.Unlock()
}

func (c *Collector) Signals() []Signal {
	if c == nil {
		return []Signal{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Signal, len(c.signals))
	copy(out, c.signals)
	return out
}

type ctxKey struct{}

func IntoContext(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) *Collector {
	if v, ok := ctx.Value(ctxKey{}).(*Collector); ok {
		return v
	}
	return nil
}

func Success(ctx context.Context, msg string) { raise(ctx, LevelSuccess, msg) }
func Warning(ctx context.Context, msg string) { raise(ctx, LevelWarning, msg) }
func Error(ctx context.Context, msg string)   { raise(ctx, LevelError, msg) }

func raise(ctx context.Context, lvl Level, msg string) {
	logging.FromContext(ctx).Debug("signal", "level", string(lvl), "message", msg)
	if c := FromContext(ctx); c != nil {
		c.add(Signal{Level: lvl, Message: msg})
	}
}
