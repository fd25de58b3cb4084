package app

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/gateway"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

// CredentialChecker reports whether an API key is available. Optional.
type CredentialChecker interface {
	HasActiveCredential(ctx context.Context) (bool, error)
}

// CredentialSelector stores a key chosen by the user. Optional.
type CredentialSelector interface {
	Select(ctx context.Context, key string) error
}

// Snapshot is what observers and views see after every transition.
type Snapshot struct {
	State    State
	Language models.Language
	Version  uint64 // increments on every change
}

// Dir is the text direction for the snapshot's language.
func (s Snapshot) Dir() string { return s.Language.Dir() }

// Options configures a Controller.
type Options struct {
	Language models.Language
	Checker  CredentialChecker
	Selector CredentialSelector
	Logger   *zap.Logger
	// BaseContext bounds background searches; cancelling it aborts the
	// in-flight call on shutdown. Defaults to context.Background().
	BaseContext context.Context
}

// Controller owns the single process-wide UI state. Only one search may be
// in flight; further submissions are refused rather than queued.
type Controller struct {
	searcher gateway.Searcher
	opts     Options
	log      *zap.Logger

	mu        sync.Mutex
	state     State
	lang      models.Language
	version   uint64
	observers []func(Snapshot)
	pending   []Snapshot
	notifying bool

	inflight sync.WaitGroup
}

// New creates a controller in the Idle state.
func New(searcher gateway.Searcher, opts Options) *Controller {
	if opts.Language == "" {
		opts.Language = models.DefaultLanguage
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	return &Controller{
		searcher: searcher,
		opts:     opts,
		log:      opts.Logger,
		state:    Idle{},
		lang:     opts.Language,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, Language: c.lang, Version: c.version}
}

// Subscribe registers fn to be called after every transition.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// apply runs one event through Reduce and notifies observers.
func (c *Controller) apply(e Event) error {
	c.mu.Lock()
	err := c.applyLocked(e)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// applyLocked moves to the next state and queues the new snapshot. c.mu must
// be held.
func (c *Controller) applyLocked(e Event) error {
	next, err := Reduce(c.state, e)
	if err != nil {
		return err
	}
	c.log.Debug("state transition", zap.String("from", c.state.Name()), zap.String("to", next.Name()))
	c.state = next
	c.commitLocked()
	return nil
}

func (c *Controller) commitLocked() {
	c.version++
	if len(c.observers) > 0 {
		c.pending = append(c.pending, c.snapshotLocked())
	}
}

// notify delivers queued snapshots outside the lock, in Version order. One
// goroutine delivers at a time and drains snapshots queued by others while it
// runs, so an observer may itself trigger a transition.
func (c *Controller) notify() {
	c.mu.Lock()
	if c.notifying {
		c.mu.Unlock()
		return
	}
	c.notifying = true
	for len(c.pending) > 0 {
		snap := c.pending[0]
		c.pending = c.pending[1:]
		observers := c.observers
		c.mu.Unlock()
		for _, fn := range observers {
			fn(snap)
		}
		c.mu.Lock()
	}
	c.notifying = false
	c.mu.Unlock()
}

// NormalizeQuery trims query and substitutes the localized default when
// nothing is left.
func NormalizeQuery(query string, lang models.Language) string {
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return locale.For(lang).DefaultQuery
}

// Submit starts a search in the background and returns once the controller
// is Loading. It returns ErrBusy if a search is already running. The query is
// normalized against the language in effect at the transition.
func (c *Controller) Submit(query string) error {
	c.mu.Lock()
	lang := c.lang
	q := NormalizeQuery(query, lang)
	if err := c.applyLocked(Submitted{Query: q}); err != nil {
		c.mu.Unlock()
		return err
	}
	c.inflight.Add(1)
	c.mu.Unlock()

	c.log.Info("search submitted", zap.String("query", q), zap.String("lang", string(lang)))
	c.notify()

	go func() {
		defer c.inflight.Done()
		c.run(c.opts.BaseContext, q, lang)
	}()
	return nil
}

func (c *Controller) run(ctx context.Context, query string, lang models.Language) {
	if c.opts.Checker != nil {
		ok, err := c.opts.Checker.HasActiveCredential(ctx)
		if err != nil {
			c.finish(Rejected{Err: errclass.As(err, lang)})
			return
		}
		if !ok {
			c.log.Info("no active credential; skipping search")
			c.finish(CredentialMissing{})
			return
		}
	}

	result, err := c.searcher.Search(ctx, query, lang)
	if err != nil {
		c.finish(Rejected{Err: errclass.As(err, lang)})
		return
	}
	c.finish(Resolved{Result: result})
}

func (c *Controller) finish(e Event) {
	if err := c.apply(e); err != nil {
		c.log.Error("search outcome dropped", zap.Error(err))
	}
}

// Wait blocks until the in-flight search, if any, has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// SelectCredential hands key to the selector and returns to Idle. It is only
// valid while awaiting authorization.
func (c *Controller) SelectCredential(ctx context.Context, key string) error {
	if _, ok := c.Snapshot().State.(AwaitingAuthorization); !ok {
		return ErrInvalidTransition
	}
	if c.opts.Selector != nil {
		if err := c.opts.Selector.Select(ctx, key); err != nil {
			return err
		}
	}
	return c.apply(CredentialSelected{})
}

// Dismiss closes the error or authorization panel.
func (c *Controller) Dismiss() error {
	return c.apply(Dismissed{})
}

// Close discards the shown result.
func (c *Controller) Close() error {
	return c.apply(Closed{})
}

// SetLanguage switches the session language. It is refused while a search
// is running or a result is on screen.
func (c *Controller) SetLanguage(lang models.Language) error {
	c.mu.Lock()
	switch c.state.(type) {
	case Loading:
		c.mu.Unlock()
		return ErrBusy
	case ShowingResult:
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if c.lang == lang {
		c.mu.Unlock()
		return nil
	}
	c.lang = lang
	c.commitLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}
