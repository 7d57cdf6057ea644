package streak

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
)

// ChargePolicy decides whether restoring an already checked-in day costs a use.
type ChargePolicy int

const (
	// ChargeAlways consumes budget on every restoration, even when the day is
	// already present. This matches the platform's one-shot manual trigger.
	ChargeAlways ChargePolicy = iota
	// ChargeOnlyWhenAdded makes restoring a present day a free no-op.
	ChargeOnlyWhenAdded
)

// ParseChargePolicy maps a config value to a policy. An empty value is ChargeAlways.
func ParseChargePolicy(s string) (ChargePolicy, error) {
	switch s {
	case "", "always":
		return ChargeAlways, nil
	case "only_when_added":
		return ChargeOnlyWhenAdded, nil
	default:
		return ChargeAlways, fmt.Errorf("unknown saver charge policy %q (expected always or only_when_added)", s)
	}
}

func (p ChargePolicy) String() string {
	if p == ChargeOnlyWhenAdded {
		return "only_when_added"
	}
	return "always"
}

// ErrInsufficientBudget matches any *BudgetError via errors.Is.
var ErrInsufficientBudget = errors.New("no streak savers left")

// ErrRestorePending is returned while another restoration is in flight.
var ErrRestorePending = errors.New("a streak saver restoration is already in progress")

// ErrNothingToRestore is returned when no day in the lookback window is missed.
var ErrNothingToRestore = errors.New("no missed day to restore")

// BudgetError indicates the saver budget is exhausted.
// Callers should disable the restore action rather than retry.
type BudgetError struct {
	Day    string
	Budget int
}

func (e *BudgetError) Error() string {
	if e == nil || e.Day == "" {
		return ErrInsufficientBudget.Error()
	}
	return fmt.Sprintf("cannot restore %s: %s", e.Day, ErrInsufficientBudget)
}

func (e *BudgetError) Is(target error) bool { return target == ErrInsufficientBudget }

func IsInsufficientBudget(err error) bool {
	var e *BudgetError
	return errors.As(err, &e)
}

// Restore inserts missed into checkins and spends one saver.
// With budget <= 0 it fails and returns checkins unchanged.
func Restore(checkins Set, missed time.Time, budget int, policy ChargePolicy) (Set, int, error) {
	if budget <= 0 {
		return checkins, budget, &BudgetError{Day: calendar.NormalizeISODate(missed), Budget: budget}
	}
	if policy == ChargeOnlyWhenAdded && checkins.Has(missed) {
		return checkins, budget, nil
	}
	return checkins.With(missed, true), budget - 1, nil
}

// RemoteFunc persists a restoration upstream before it is applied locally.
type RemoteFunc func(ctx context.Context, day time.Time) error

// Controller serializes restorations so a second trigger cannot double-spend
// the budget while the first one is still waiting on the remote collaborator.
type Controller struct {
	Policy ChargePolicy

	mu      sync.Mutex
	pending bool
}

func NewController(policy ChargePolicy) *Controller {
	return &Controller{Policy: policy}
}

// Pending reports whether a restoration is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Restore runs remote (if set) and then applies the restoration locally.
// A remote failure leaves checkins and budget untouched. Under
// ChargeOnlyWhenAdded a day that is already present never reaches remote.
func (c *Controller) Restore(ctx context.Context, checkins Set, missed time.Time, budget int, remote RemoteFunc) (Set, int, error) {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return checkins, budget, ErrRestorePending
	}
	c.pending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	if budget <= 0 {
		return checkins, budget, &BudgetError{Day: calendar.NormalizeISODate(missed), Budget: budget}
	}
	if c.Policy == ChargeOnlyWhenAdded && checkins.Has(missed) {
		return checkins, budget, nil
	}
	if err := ctx.Err(); err != nil {
		return checkins, budget, err
	}
	if remote != nil {
		if err := remote(ctx, missed); err != nil {
			return checkins, budget, fmt.Errorf("failed to restore %s upstream: %w", calendar.NormalizeISODate(missed), err)
		}
	}
	return Restore(checkins, missed, budget, c.Policy)
}
