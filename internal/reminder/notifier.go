// Package reminder surfaces stale urgent cart entries. It is not a
// background process: the cart handler invokes it once per cart load.
package reminder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/pantry/internal/model"
)

// DefaultThreshold is how old an urgent, unreminded entry must be before a
// reminder is surfaced.
const DefaultThreshold = 7 * 24 * time.Hour

// CartSource is the slice of the cart store the notifier needs.
type CartSource interface {
	FindDueForReminder(threshold time.Duration) ([]model.CartEntry, error)
	MarkReminded(ids []int64) error
}

// Notifier batches due reminders for presentation. A boolean latch keeps a
// second batch from stacking while one is already on screen: Pending latches
// when it returns a non-empty batch, and Acknowledge or Dismiss release it.
type Notifier struct {
	mu         sync.Mutex
	cart       CartSource
	threshold  time.Duration
	presenting bool
	pendingIDs []int64
	logger     *slog.Logger
}

func NewNotifier(cart CartSource, threshold time.Duration, logger *slog.Logger) *Notifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Notifier{
		cart:      cart,
		threshold: threshold,
		logger:    logger,
	}
}

// Pending returns the entries due for a reminder as one batch, or nil when
// nothing is due or a batch is already being presented. The ids of the
// returned batch are remembered so Acknowledge marks exactly what was shown.
func (n *Notifier) Pending() ([]model.CartEntry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.presenting {
		return nil, nil
	}

	due, err := n.cart.FindDueForReminder(n.threshold)
	if err != nil {
		return nil, fmt.Errorf("find due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(due))
	for i, e := range due {
		ids[i] = e.ID
	}
	n.presenting = true
	n.pendingIDs = ids

	n.logger.Info("reminder batch pending", "count", len(due))
	return due, nil
}

// Acknowledge marks the entries from the latched batch as reminded and
// releases the latch. Calling it with no batch pending is a no-op.
func (n *Notifier) Acknowledge() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.presenting {
		return nil
	}

	if err := n.cart.MarkReminded(n.pendingIDs); err != nil {
		// Leave the latch set so the same batch is not re-fetched and
		// re-shown while the flag write is failing.
		return fmt.Errorf("mark reminded: %w", err)
	}

	n.presenting = false
	n.pendingIDs = nil
	return nil
}

// Dismiss releases the latch without marking anything, so the batch
// resurfaces on the next cart load.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.presenting = false
	n.pendingIDs = nil
	n.mu.Unlock()
}

// Presenting reports whether a batch is currently latched.
func (n *Notifier) Presenting() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.presenting
}
