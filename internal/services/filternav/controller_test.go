package filternav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler collects deferred actions and fires them by hand, so tests
// control time deterministically.
type fakeScheduler struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every live timer, simulating the close delay elapsing.
func (s *fakeScheduler) fireAll() {
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.fn()
		}
	}
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func newTestController() (*Controller, *fakeScheduler) {
	sched := &fakeScheduler{}
	return NewController(WithScheduler(sched)), sched
}

func TestEnterTriggerOpensZone(t *testing.T) {
	c, _ := newTestController()

	c.OnEnterTrigger("barbeku")

	open, ok := c.OpenZone()
	require.True(t, ok)
	assert.Equal(t, "barbeku", open)
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
}

func TestHoverIntentCrossingTheGapNeverCloses(t *testing.T) {
	c, sched := newTestController()

	// trigger-enter -> trigger-leave -> panel-enter, all within the delay
	c.OnEnterTrigger("barbeku")
	c.OnLeave("barbeku")
	assert.Equal(t, StateClosing, c.ZoneState("barbeku"))

	c.OnEnterPanel("barbeku")
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))

	// panel-leave back toward the trigger
	c.OnLeave("barbeku")
	c.OnEnterTrigger("barbeku")
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))

	// Whatever timers were scheduled along the way are all cancelled; firing
	// the delay now must not close the zone.
	sched.fireAll()
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
	open, ok := c.OpenZone()
	require.True(t, ok)
	assert.Equal(t, "barbeku", open)
}

func TestLeaveWithoutReentryClosesExactlyOnce(t *testing.T) {
	c, sched := newTestController()

	c.OnEnterTrigger("barbeku")
	c.OnLeave("barbeku")
	assert.Equal(t, 1, sched.pending())

	sched.fireAll()
	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
	_, ok := c.OpenZone()
	assert.False(t, ok)

	// Firing again is inert: the close happened exactly once.
	sched.fireAll()
	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
}

func TestAtMostOnePendingCloseTimerPerZone(t *testing.T) {
	c, sched := newTestController()

	c.OnEnterTrigger("barbeku")
	c.OnLeave("barbeku")
	c.OnEnterPanel("barbeku")
	c.OnLeave("barbeku")
	c.OnEnterPanel("barbeku")
	c.OnLeave("barbeku")

	assert.Equal(t, 1, sched.pending())
}

func TestStaleTimerCannotCloseReenteredZone(t *testing.T) {
	c, sched := newTestController()

	c.OnEnterTrigger("barbeku")
	c.OnLeave("barbeku")
	stale := sched.timers[0]

	// Re-enter before the delay elapses, then leave again. The first timer
	// was cancelled, but simulate it firing anyway (the callback racing a
	// too-late Stop).
	c.OnEnterTrigger("barbeku")
	stale.stopped = false
	stale.fn()

	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
}

func TestActivatingAnotherZoneForceClosesTheFirst(t *testing.T) {
	c, sched := newTestController()

	c.OnEnterTrigger("barbeku")
	c.OnEnterTrigger("tas-aksesuarlar")

	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
	assert.Equal(t, StateOpen, c.ZoneState("tas-aksesuarlar"))
	open, _ := c.OpenZone()
	assert.Equal(t, "tas-aksesuarlar", open)

	sched.fireAll()
	assert.Equal(t, StateOpen, c.ZoneState("tas-aksesuarlar"))
}

func TestOutOfSequenceEventsAreNoOps(t *testing.T) {
	c, sched := newTestController()

	// Leave and panel-enter with no open zone at all.
	c.OnLeave("barbeku")
	c.OnEnterPanel("barbeku")
	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
	assert.Equal(t, 0, sched.pending())

	// Panel-enter for a zone other than the open one.
	c.OnEnterTrigger("barbeku")
	c.OnEnterPanel("tas-aksesuarlar")
	assert.Equal(t, StateIdle, c.ZoneState("tas-aksesuarlar"))
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
}

func TestSelectCommitsFilterWithoutClosingOnPointer(t *testing.T) {
	c, _ := newTestController()

	c.OnEnterTrigger("barbeku")
	c.OnSelect("barbeku", "metal-barbekuler")

	assert.Equal(t, Filter{Category: "barbeku", Subcategory: "metal-barbekuler"}, c.ActiveFilter())
	// Selection and visibility are independent: the panel stays open.
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
}

func TestSelectWithNoOpenZoneStillCommits(t *testing.T) {
	c, _ := newTestController()

	c.OnSelect("bahce", "")
	assert.Equal(t, Filter{Category: "bahce"}, c.ActiveFilter())
}

func TestTouchToggleOpensAndCloses(t *testing.T) {
	c, sched := newTestController()

	c.OnTouchToggle("barbeku")
	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
	// Touch has no hover and therefore no deferred close.
	assert.Equal(t, 0, sched.pending())

	c.OnTouchToggle("barbeku")
	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
	_, ok := c.OpenZone()
	assert.False(t, ok)
}

func TestTouchToggleSwitchesZones(t *testing.T) {
	c, _ := newTestController()

	c.OnTouchToggle("barbeku")
	c.OnTouchToggle("tas-aksesuarlar")

	assert.Equal(t, StateIdle, c.ZoneState("barbeku"))
	assert.Equal(t, StateOpen, c.ZoneState("tas-aksesuarlar"))
}

func TestSelectForceClosesTouchOpenedZone(t *testing.T) {
	c, _ := newTestController()

	c.OnTouchToggle("tas-aksesuarlar")
	c.OnSelect("tas-aksesuarlar", "mermer-kurna")

	assert.Equal(t, Filter{Category: "tas-aksesuarlar", Subcategory: "mermer-kurna"}, c.ActiveFilter())
	assert.Equal(t, StateIdle, c.ZoneState("tas-aksesuarlar"))
	_, ok := c.OpenZone()
	assert.False(t, ok)
}

func TestLeaveIsIgnoredForTouchOpenedZone(t *testing.T) {
	c, sched := newTestController()

	c.OnTouchToggle("barbeku")
	c.OnLeave("barbeku")

	assert.Equal(t, StateOpen, c.ZoneState("barbeku"))
	assert.Equal(t, 0, sched.pending())
}

func TestZeroFilterMeansEverything(t *testing.T) {
	c, _ := newTestController()
	assert.True(t, c.ActiveFilter().IsAll())

	c.OnSelect("barbeku", "")
	assert.False(t, c.ActiveFilter().IsAll())
}
