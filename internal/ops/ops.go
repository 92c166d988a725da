package ops

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/store"
	"github.com/hpungsan/outreach/internal/tracker"
)

// Page size limits
const (
	MaxPageSize   = 100
	MaxBulkIDs    = 500
	MaxImportSize = 10000
)

// Tracker owns the in-memory contact collection and mirrors it to a
// persistence slot after every mutation.
type Tracker struct {
	mu       sync.Mutex
	state    tracker.State
	provider store.Provider
	cfg      *config.Config
	log      logging.Logger
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Open loads the collection once. A slot that cannot be read or parsed is
// logged and replaced by an empty collection; Open only fails on bad
// arguments.
func Open(ctx context.Context, provider store.Provider, cfg *config.Config, log logging.Logger, opts ...Option) (*Tracker, error) {
	if provider == nil {
		return nil, errors.NewInvalidRequest("provider is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logging.Nop()
	}

	t := &Tracker{
		provider: provider,
		cfg:      cfg,
		log:      log.With("provider", provider.Name()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	contacts, err := provider.Load(ctx)
	switch {
	case err != nil:
		t.log.Warn(ctx, "contacts unreadable, starting empty", "error", err)
		contacts = nil
	case contacts == nil:
		t.log.Info(ctx, "no saved contacts, starting empty")
	default:
		t.log.Info(ctx, "contacts loaded", "count", len(contacts))
	}

	t.state = tracker.NewState(contacts)
	return t, nil
}

// Config returns the tracker's configuration.
func (t *Tracker) Config() *config.Config {
	return t.cfg
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Contacts returns a copy of the collection in insertion order.
func (t *Tracker) Contacts() []contact.Contact {
	t.mu.Lock()
	defer t.mu.Unlock()
	return contact.CloneAll(t.state.Contacts)
}

func (t *Tracker) reducer(pageSize int) tracker.Reducer {
	if pageSize <= 0 {
		pageSize = t.cfg.PageSize
	}
	return tracker.Reducer{Now: t.now, PageSize: pageSize}
}

// commit applies events and saves the result. The caller holds t.mu.
// The new state is kept even when the save fails so the next successful
// save mirrors it.
func (t *Tracker) commit(ctx context.Context, events ...tracker.Event) error {
	t.state = t.reducer(0).Apply(t.state, events...)

	if err := t.provider.Save(ctx, t.state.Contacts); err != nil {
		t.log.Error(ctx, "save contacts failed", "error", err, "count", len(t.state.Contacts))
		return errors.NewInternal(fmt.Errorf("save contacts: %w", err))
	}
	t.log.Debug(ctx, "contacts saved", "count", len(t.state.Contacts))
	return nil
}

// checkContext returns CANCELLED when ctx is done.
func checkContext(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}

// cleanIDs trims ids and drops blanks and duplicates.
func cleanIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
