// Package filternav drives the cascading category/subcategory picker of the
// storefront filter bar as an explicit state machine. Each category "zone"
// (its trigger plus its dropdown panel) is Idle, Open, or Closing; leaving a
// zone schedules a deferred close so brief pointer excursions across the gap
// between trigger and panel do not flicker the dropdown shut. Touch input has
// no hover and uses a toggle model instead.
//
// The committed filter and the visually open zone are held as two independent
// pieces of state: selecting a filter entry never implicitly closes anything
// on pointer input, so users can keep browsing options with the panel open.
package filternav

import (
	"sync"
	"time"
)

// State of one zone.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "idle"
	}
}

// DefaultCloseDelay tolerates the pointer crossing the gap between a trigger
// and its panel.
const DefaultCloseDelay = 180 * time.Millisecond

// Filter is the committed (category, subcategory) selection used to
// parameterize product queries. The zero value means "everything".
type Filter struct {
	Category    string
	Subcategory string
}

// IsAll reports whether the filter selects everything.
func (f Filter) IsAll() bool {
	return f.Category == "" && f.Subcategory == ""
}

// Timer is a cancellable deferred action.
type Timer interface {
	Stop() bool
}

// Scheduler produces deferred actions; tests substitute a manual one.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type zone struct {
	state         State
	pendingClose  Timer
	closeGen      uint64
	openedByTouch bool
}

// Controller is the navigation state machine. Event handlers are cheap,
// non-blocking state transitions; the only deferred effect is the scheduled
// close. Out-of-sequence events are no-ops, never errors.
type Controller struct {
	mu sync.Mutex

	delay time.Duration
	sched Scheduler

	zones    map[string]*zone
	openZone string
	filter   Filter
}

// Option configures a Controller.
type Option func(*Controller)

// WithCloseDelay overrides the deferred-close delay.
func WithCloseDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithScheduler overrides the timer source, used by tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		delay: DefaultCloseDelay,
		sched: realScheduler{},
		zones: map[string]*zone{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEnterTrigger handles the pointer entering a zone's trigger hit-zone.
// Any pending close for that zone is cancelled; any other open zone is
// force-closed.
func (c *Controller) OnEnterTrigger(zoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open(zoneID, false)
}

// OnEnterPanel handles the pointer entering the dropdown panel. The panel is
// physically separate from the trigger, so the pointer has crossed a gap and
// a close is usually pending; it must be cancelled here. Entering a panel of
// a zone that is not open or closing is a stale event and is ignored.
func (c *Controller) OnEnterPanel(zoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z, ok := c.zones[zoneID]
	if !ok || c.openZone != zoneID {
		return
	}
	c.cancelPendingClose(z)
	z.state = StateOpen
}

// OnLeave handles the pointer leaving the trigger or the panel without
// entering the other. A close is scheduled after the delay; re-entering
// either region before it elapses cancels it. At most one pending close
// exists per zone: the existing timer is always cancelled before a new one
// is scheduled.
func (c *Controller) OnLeave(zoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z, ok := c.zones[zoneID]
	if !ok || c.openZone != zoneID || z.openedByTouch {
		return
	}

	c.cancelPendingClose(z)
	z.state = StateClosing
	z.closeGen++
	gen := z.closeGen
	z.pendingClose = c.sched.AfterFunc(c.delay, func() {
		c.closeExpired(zoneID, gen)
	})
}

// OnSelect commits the active filter immediately, independent of dropdown
// visibility. On pointer input the open zone stays open so the user can keep
// browsing; a touch-opened zone is force-closed.
func (c *Controller) OnSelect(category, subcategory string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = Filter{Category: category, Subcategory: subcategory}

	if c.openZone == "" {
		return
	}
	if z := c.zones[c.openZone]; z != nil && z.openedByTouch {
		c.close(c.openZone)
	}
}

// OnTouchToggle handles a tap on a zone's trigger. Tapping the open zone
// closes it; tapping any other opens it (force-closing the previous one).
// Touch zones never schedule a deferred close.
func (c *Controller) OnTouchToggle(zoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openZone == zoneID {
		c.close(zoneID)
		return
	}
	c.open(zoneID, true)
}

// ActiveFilter returns the committed filter.
func (c *Controller) ActiveFilter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// OpenZone returns the currently open or closing zone, if any.
func (c *Controller) OpenZone() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openZone, c.openZone != ""
}

// ZoneState returns the state of one zone.
func (c *Controller) ZoneState(zoneID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if z, ok := c.zones[zoneID]; ok {
		return z.state
	}
	return StateIdle
}

// open transitions a zone to Open, force-closing any other open zone first.
// Callers hold the lock.
func (c *Controller) open(zoneID string, byTouch bool) {
	if c.openZone != "" && c.openZone != zoneID {
		c.close(c.openZone)
	}

	z, ok := c.zones[zoneID]
	if !ok {
		z = &zone{}
		c.zones[zoneID] = z
	}
	c.cancelPendingClose(z)
	z.state = StateOpen
	z.openedByTouch = byTouch
	c.openZone = zoneID
}

// close transitions a zone to Idle. Callers hold the lock.
func (c *Controller) close(zoneID string) {
	z, ok := c.zones[zoneID]
	if !ok {
		return
	}
	c.cancelPendingClose(z)
	z.state = StateIdle
	z.openedByTouch = false
	if c.openZone == zoneID {
		c.openZone = ""
	}
}

// closeExpired runs when a deferred close fires. The generation check drops
// stale timers that lost the race with a cancel: a timer whose Stop came too
// late must not close a zone the user has since re-entered.
func (c *Controller) closeExpired(zoneID string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z, ok := c.zones[zoneID]
	if !ok || z.state != StateClosing || z.closeGen != gen {
		return
	}
	z.pendingClose = nil
	c.close(zoneID)
}

func (c *Controller) cancelPendingClose(z *zone) {
	if z.pendingClose != nil {
		z.pendingClose.Stop()
		z.pendingClose = nil
	}
	z.closeGen++
}
