// Package notice carries user-facing success and failure banners from the
// services to whatever renders them.
package notice

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// Sink receives notices. Implementations must not block.
type Sink interface {
	Notify(n model.Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(model.Notice)

func (f SinkFunc) Notify(n model.Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = SinkFunc(func(model.Notice) {})

// Success builds a default-variant notice.
func Success(title, description string) model.Notice {
	return model.Notice{Title: title, Description: description, Variant: model.NoticeDefault}
}

// Failure builds a destructive-variant notice.
func Failure(title, description string) model.Notice {
	return model.Notice{Title: title, Description: description, Variant: model.NoticeDestructive}
}

// Feed keeps the most recent notices in memory and logs each one.
type Feed struct {
	mu    sync.Mutex
	items []model.Notice
	limit int
	log   *zap.Logger
	now   func() time.Time
}

// NewFeed returns a Feed holding at most limit notices.
func NewFeed(limit int, log *zap.Logger) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, log: log, now: time.Now}
}

// Notify records n, dropping the oldest entry when full.
func (f *Feed) Notify(n model.Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = f.now().UTC()
	}
	f.mu.Lock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
	f.mu.Unlock()

	f.log.Info("notice",
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
	)
}

// Recent returns up to n notices, newest first.
func (f *Feed) Recent(n int) []model.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 || n > len(f.items) {
		n = len(f.items)
	}
	out := make([]model.Notice, 0, n)
	for i := len(f.items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.items[i])
	}
	return out
}
