package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/workload-service/internal/domain"
)

// Notifier holds the single transient notification of a module. Showing a new
// notification replaces the current one and restarts the auto-dismiss timer;
// dismissal is also available manually.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	logger  *zap.Logger
	current *domain.Notification
	timer   *time.Timer
	seq     uint64
}

// NewNotifier builds a notifier with the given auto-dismiss TTL.
func NewNotifier(ttl time.Duration, logger *zap.Logger) *Notifier {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Notifier{ttl: ttl, logger: logger}
}

// Show replaces the visible notification and arms the dismiss timer.
func (n *Notifier) Show(kind domain.NotificationKind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.current = &domain.Notification{Visible: true, Text: text, Kind: kind}
	n.timer = time.AfterFunc(n.ttl, func() {
		n.expire(seq)
	})

	if n.logger != nil {
		n.logger.Debug("notification", zap.String("kind", string(kind)), zap.String("text", text))
	}
}

// expire clears the notification only if it has not been replaced meanwhile.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq != seq {
		return
	}
	n.current = nil
	n.timer = nil
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return domain.Notification{}, false
	}
	return *n.current, true
}

// Dismiss manually clears the notification and cancels its timer.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	n.current = nil
}

// Close cancels any pending timer; used on module shutdown.
func (n *Notifier) Close() {
	n.Dismiss()
}
