// Package slideshow manages the automatic cycling of gallery images.
package slideshow

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fygallery/internal/store"
)

// DefaultInterval is used when a cycler is created with a non-positive interval.
const DefaultInterval = 10 * time.Second

// ErrNoImages is returned by NewCycler for an empty record list.
var ErrNoImages = errors.New("slideshow needs at least one image")

// ShowFunc renders rec, the image at position index of the visiting order.
// It is called from the ticker goroutine, so UI code must marshal to the
// main thread itself.
type ShowFunc func(rec store.ImageRecord, index int)

// Cycler advances an index over a fixed set of records on a timer.
// The position after t ticks is t mod n.
type Cycler struct {
	mu                 sync.Mutex
	records            []store.ImageRecord
	order              []int
	index              int
	isPaused           bool
	wasPlayingBeforeOp bool // Tracks if the cycler was playing before a temp pause
	interval           time.Duration
	onShow             ShowFunc
	stop               chan struct{}
	stopped            bool
	logger             zerolog.Logger
}

// Option configures a Cycler.
type Option func(*Cycler)

// WithLogger sets the logger used for state changes.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cycler) { c.logger = logger }
}

// WithRand shuffles the visiting order with rng. Used by tests to get a
// reproducible permutation.
func WithRand(rng *rand.Rand) Option {
	return func(c *Cycler) { c.order = Permutation(len(c.records), rng) }
}

// NewCycler creates a cycler over a copy of records. With shuffle set the
// records are visited in a random order that stays fixed for the cycler's
// lifetime.
func NewCycler(records []store.ImageRecord, interval time.Duration, shuffle bool, opts ...Option) (*Cycler, error) {
	if len(records) == 0 {
		return nil, ErrNoImages
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Cycler{
		records:  append([]store.ImageRecord(nil), records...),
		interval: interval,
		logger:   zerolog.Nop(),
	}
	c.order = Identity(len(records))
	if shuffle {
		c.order = Permutation(len(records), rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start renders the record at index 0 and starts the ticker. onShow may be nil.
// Calling Start twice, or after Stop, has no effect.
func (c *Cycler) Start(onShow ShowFunc) {
	c.mu.Lock()
	if c.stop != nil || c.stopped {
		c.mu.Unlock()
		return
	}
	c.onShow = onShow
	c.stop = make(chan struct{})
	stop := c.stop
	interval := c.interval
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(c.records)).Dur("interval", interval).Msg("Slideshow started")
	c.render()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Tick()
			}
		}
	}()
}

// Tick advances to the next record and renders it, unless paused.
// It reports whether the index moved.
func (c *Cycler) Tick() bool {
	c.mu.Lock()
	if c.isPaused || c.stopped {
		c.mu.Unlock()
		return false
	}
	c.index = (c.index + 1) % len(c.records)
	c.mu.Unlock()
	c.render()
	return true
}

// Next moves forward one image regardless of the pause state.
func (c *Cycler) Next() {
	c.step(1)
}

// Previous moves back one image regardless of the pause state.
func (c *Cycler) Previous() {
	c.step(-1)
}

func (c *Cycler) step(delta int) {
	c.mu.Lock()
	n := len(c.records)
	c.index = ((c.index+delta)%n + n) % n
	c.mu.Unlock()
	c.render()
}

// Refresh renders the current record again without moving the index,
// e.g. after the viewport was resized.
func (c *Cycler) Refresh() {
	c.render()
}

func (c *Cycler) render() {
	c.mu.Lock()
	onShow := c.onShow
	index := c.index
	rec := c.records[c.order[index]]
	c.mu.Unlock()
	if onShow != nil {
		onShow(rec, index)
	}
}

// Stop ends the ticker. It is safe to call more than once.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.stop != nil {
		close(c.stop)
	}
	c.logger.Debug().Msg("Slideshow stopped")
}

// Index returns the current position in the visiting order.
func (c *Cycler) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Current returns the record at the current position.
func (c *Cycler) Current() store.ImageRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[c.order[c.index]]
}

// Len returns the number of records being cycled.
func (c *Cycler) Len() int {
	return len(c.records)
}

// Order returns a copy of the visiting order: Order()[i] is the index into
// the record list passed to NewCycler shown at position i.
func (c *Cycler) Order() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.order...)
}

// TogglePlayPause toggles the play/pause state.
func (c *Cycler) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isPaused = !c.isPaused
	c.wasPlayingBeforeOp = false // User toggle overrides any operation-specific state
}

// Pause forces the cycler to pause.
// If forOperation is true, it remembers if the cycler was playing.
func (c *Cycler) Pause(forOperation bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if forOperation {
		c.wasPlayingBeforeOp = !c.isPaused
	}
	c.isPaused = true
}

// ResumeAfterOperation resumes only if the cycler was playing before Pause(true).
func (c *Cycler) ResumeAfterOperation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wasPlayingBeforeOp {
		c.isPaused = false
	}
	c.wasPlayingBeforeOp = false
}

// IsPaused returns true if the cycler is currently paused.
func (c *Cycler) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isPaused
}

// Interval returns the configured tick interval.
func (c *Cycler) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}
