package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Phase is the lifecycle position of a screen's single fetch.
type Phase int

const (
	Loading Phase = iota
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ViewState is what a screen renders from.
type ViewState[T any] struct {
	Phase      Phase
	Data       T
	Err        error
	Activation string
	StartedAt  time.Time
	SettledAt  time.Time
}

// IsTerminal reports whether the state has left Loading.
func (s ViewState[T]) IsTerminal() bool {
	return s.Phase == Loaded || s.Phase == Failed
}

// Fetcher performs the one remote read a screen needs.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Controller drives one screen activation from Loading to a terminal phase.
// It runs its fetcher at most once and ignores any result that arrives after
// Close.
type Controller[T any] struct {
	id       string
	fetch    Fetcher[T]
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *log.Entry
	classify func(error) string
	now      func() time.Time

	once sync.Once
	done chan struct{}

	mu        sync.RWMutex
	state     ViewState[T]
	closed    bool
	discarded bool
}

type options struct {
	logger   *log.Entry
	classify func(error) string
	now      func() time.Time
}

// Option customizes a Controller.
type Option func(*options)

// WithLogger sets the logger used for phase transitions.
func WithLogger(logger *log.Entry) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClassifier sets how failures are labelled in logs.
func WithClassifier(classify func(error) string) Option {
	return func(o *options) {
		if classify != nil {
			o.classify = classify
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates a controller in the Loading phase. The fetch does not start
// until Run or Start is called.
func New[T any](parent context.Context, fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{
		logger:   log.NewEntry(log.StandardLogger()),
		classify: func(error) string { return "error" },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if parent == nil {
		parent = context.Background()
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(WithActivation(parent, id))
	return &Controller[T]{
		id:       id,
		fetch:    fetch,
		ctx:      ctx,
		cancel:   cancel,
		logger:   o.logger.WithField("activation", id),
		classify: o.classify,
		now:      o.now,
		done:     make(chan struct{}),
		state: ViewState[T]{
			Phase:      Loading,
			Activation: id,
			StartedAt:  o.now(),
		},
	}
}

// ID returns the activation id.
func (c *Controller[T]) ID() string {
	return c.id
}

// Run performs the fetch on the first call and returns the resulting state.
// Concurrent and later calls wait for that fetch and never start another.
func (c *Controller[T]) Run() ViewState[T] {
	c.once.Do(c.execute)
	return c.State()
}

// Start runs the fetch in a new goroutine and returns Done.
func (c *Controller[T]) Start() <-chan struct{} {
	go c.Run()
	return c.done
}

// Done is closed once the fetch has finished or been skipped.
func (c *Controller[T]) Done() <-chan struct{} {
	return c.done
}

// State returns the current state.
func (c *Controller[T]) State() ViewState[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close cancels the activation. A fetch still in flight is cancelled and its
// result, if any, is discarded.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	if !already {
		c.logger.Debug("activation closed")
	}
}

// Closed reports whether Close has been called.
func (c *Controller[T]) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Discarded reports whether a fetch result arrived after Close and was dropped.
func (c *Controller[T]) Discarded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.discarded
}

func (c *Controller[T]) execute() {
	defer close(c.done)

	if c.Closed() {
		c.logger.Debug("activation closed before fetch started")
		return
	}

	c.logger.Debug("fetch started")
	data, err := c.fetch(c.ctx)
	c.settle(data, err)
}

func (c *Controller[T]) settle(data T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.discarded = true
		c.logger.Debug("discarding result for closed activation")
		return
	}
	if c.state.IsTerminal() {
		return
	}

	c.state.SettledAt = c.now()
	elapsed := c.state.SettledAt.Sub(c.state.StartedAt)
	if err != nil {
		c.state.Phase = Failed
		c.state.Err = err
		c.logger.WithFields(log.Fields{
			"kind":    c.classify(err),
			"elapsed": elapsed,
		}).WithError(err).Warn("fetch failed")
		return
	}
	c.state.Phase = Loaded
	c.state.Data = data
	c.logger.WithField("elapsed", elapsed).Info("fetch loaded")
}

type activationKey struct{}

// WithActivation stores an activation id on ctx.
func WithActivation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, activationKey{}, id)
}

// ActivationFrom returns the activation id carried by ctx, if any.
func ActivationFrom(ctx context.Context) string {
	id, _ := ctx.Value(activationKey{}).(string)
	return id
}
