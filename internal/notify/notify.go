package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier surfaces user-facing feedback for cart and wishlist operations:
// a confirmation when a mutation lands, an error message when it fails.
// The HTTP layer collects these per request and returns them in the response
// envelope so the storefront UI can render them as toasts.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Notice is one piece of user-facing feedback.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

type collectorKey struct{}

// Collector accumulates notices for a single request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// WithCollector returns a context carrying a fresh collector, and the
// collector itself for draining after the handler runs.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// FromContext returns the request's collector, or nil when none is attached.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

func (c *Collector) add(level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: message})
}

// Drain returns the collected notices and resets the collector.
func (c *Collector) Drain() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	return out
}

// ContextNotifier writes notices into the request's collector. When the
// context has no collector (background work), notices fall through to the log.
type ContextNotifier struct {
	logger *slog.Logger
}

// NewContextNotifier creates a notifier backed by per-request collectors.
func NewContextNotifier(logger *slog.Logger) *ContextNotifier {
	return &ContextNotifier{logger: logger}
}

func (n *ContextNotifier) Success(ctx context.Context, message string) {
	if c := FromContext(ctx); c != nil {
		c.add(LevelSuccess, message)
		return
	}
	n.logger.InfoContext(ctx, "notice", slog.String("level", LevelSuccess), slog.String("message", message))
}

func (n *ContextNotifier) Error(ctx context.Context, message string) {
	if c := FromContext(ctx); c != nil {
		c.add(LevelError, message)
		return
	}
	n.logger.WarnContext(ctx, "notice", slog.String("level", LevelError), slog.String("message", message))
}
