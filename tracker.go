package mdnav

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Tracker defaults.
const (
	// DefaultThresholdRatio is the look-ahead threshold as a fraction of
	// the viewport height. A heading counts as reached once its offset is
	// within that distance below the current scroll position. The 0.30
	// default is empirical: far enough ahead that a section highlights as
	// its title approaches the reading line, not only once it crosses the
	// very top.
	DefaultThresholdRatio = 0.30

	// defaultFrameInterval approximates one animation frame (~60fps) for
	// the timer-based scheduler.
	defaultFrameInterval = 16 * time.Millisecond
)

// Offsets maps heading ids to their vertical offset within the scrollable
// container. It is captured once per content update by the host
// environment and handed to the tracker on Attach; on layout-affecting
// events (resize, reflow) the host remeasures and calls UpdateOffsets.
type Offsets map[string]float64

// frameScheduler defers work to the next animation-frame-equivalent tick,
// bounding recomputation to once per frame regardless of scroll-event
// frequency. Tests substitute a manual implementation.
type frameScheduler interface {
	Schedule(fn func())
}

// timerScheduler fires on a timer approximating one frame.
type timerScheduler struct {
	interval time.Duration
}

func (s timerScheduler) Schedule(fn func()) {
	time.AfterFunc(s.interval, fn)
}

// SubscriptionToken identifies one subscriber for Unsubscribe.
type SubscriptionToken int

// offsetEntry pairs a heading id with its cached offset, kept sorted by
// offset for binary search.
type offsetEntry struct {
	id     string
	offset float64
}

// Tracker maps live scroll positions to the single active heading id.
//
// It is a two-state machine: idle (nothing attached) and tracking
// (offsets cached, scroll positions accepted). Attach moves it to
// tracking, tearing down any previous attachment first so stale offsets
// from a prior document can never leak into classification. While
// tracking, scroll positions arriving before the next frame tick are
// coalesced; only the latest position is classified. A change
// notification fires only when the computed id actually differs.
//
// The active heading is the one with the largest cached offset o such
// that o <= position + threshold; when no heading qualifies (scrolled
// above the first one) the active id is empty.
type Tracker struct {
	logger *slog.Logger
	sched  frameScheduler

	thresholdRatio  float64
	thresholdPixels float64 // overrides ratio when > 0

	mu       sync.Mutex
	tracking bool
	gen      uint64 // bumped on Attach/Detach to cancel pending frames
	pending  bool
	scrollY  float64
	viewport float64
	entries  []offsetEntry
	known    map[string]struct{} // ids of the attached headings
	active   string

	subs      map[SubscriptionToken]func(activeID string)
	nextToken SubscriptionToken
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithThresholdRatio sets the look-ahead threshold as a fraction of the
// viewport height. Panics if ratio is negative (programmer error).
func WithThresholdRatio(ratio float64) TrackerOption {
	if ratio < 0 {
		panic("mdnav: WithThresholdRatio ratio must not be negative")
	}
	return func(t *Tracker) {
		t.thresholdRatio = ratio
	}
}

// WithThresholdPixels sets an absolute look-ahead threshold, overriding
// the viewport-relative ratio. Panics if px is negative.
func WithThresholdPixels(px float64) TrackerOption {
	if px < 0 {
		panic("mdnav: WithThresholdPixels px must not be negative")
	}
	return func(t *Tracker) {
		t.thresholdPixels = px
	}
}

// WithTrackerLogger sets the logger for listener-fault diagnostics.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// withFrameScheduler substitutes the frame tick source; used by tests.
func withFrameScheduler(s frameScheduler) TrackerOption {
	return func(t *Tracker) {
		t.sched = s
	}
}

// NewTracker creates an idle tracker with default configuration.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		thresholdRatio: DefaultThresholdRatio,
		subs:           make(map[SubscriptionToken]func(string)),
		nextToken:      1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.sched == nil {
		t.sched = timerScheduler{interval: defaultFrameInterval}
	}
	return t
}

// Subscribe registers a callback for active-id transitions and returns a
// token for Unsubscribe. The callback receives the new active id, empty
// when no heading is active. A panic inside one callback is recovered and
// logged; it never stops future notifications or other subscribers.
func (t *Tracker) Subscribe(fn func(activeID string)) SubscriptionToken {
	t.mu.Lock()
	defer t.mu.Unlock()
	token := t.nextToken
	t.nextToken++
	t.subs[token] = fn
	return token
}

// Unsubscribe removes a subscriber. Unknown tokens are ignored.
func (t *Tracker) Unsubscribe(token SubscriptionToken) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, token)
}

// Attach caches offsets for a freshly built document and starts tracking.
// Any previous attachment is torn down first and its pending frame, if
// any, is discarded. The active id resets to none, so the first
// classification that lands on a heading notifies as a change.
//
// Headings without a measured offset are skipped. The viewport height
// feeds the ratio-based look-ahead threshold.
func (t *Tracker) Attach(headings []Heading, offsets Offsets, viewportHeight float64) {
	known := make(map[string]struct{}, len(headings))
	entries := make([]offsetEntry, 0, len(headings))
	for _, h := range headings {
		known[h.ID] = struct{}{}
		if o, ok := offsets[h.ID]; ok {
			entries = append(entries, offsetEntry{id: h.ID, offset: o})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].offset < entries[j].offset
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.tracking = true
	t.pending = false
	t.entries = entries
	t.known = known
	t.viewport = viewportHeight
	t.active = ""
}

// Detach stops tracking and clears the offset cache. No pending
// recomputation fires after Detach returns.
func (t *Tracker) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.tracking = false
	t.pending = false
	t.entries = nil
	t.known = nil
	t.active = ""
}

// Tracking reports whether a document is currently attached.
func (t *Tracker) Tracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

// Active returns the current active heading id; ok is false when no
// heading is active (scrolled above the first heading, or idle).
func (t *Tracker) Active() (id string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.active != ""
}

// UpdateOffsets replaces the cached offsets after a layout-affecting
// event (container resize, content reflow) without resetting the active
// id, then reclassifies against the latest scroll position. Ids outside
// the attached heading list are ignored.
func (t *Tracker) UpdateOffsets(offsets Offsets, viewportHeight float64) {
	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return
	}
	entries := make([]offsetEntry, 0, len(offsets))
	for id, o := range offsets {
		if _, ok := t.known[id]; !ok {
			continue
		}
		entries = append(entries, offsetEntry{id: id, offset: o})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].offset < entries[j].offset
	})
	t.entries = entries
	t.viewport = viewportHeight
	t.mu.Unlock()

	t.OnScroll(t.lastScroll())
}

// lastScroll reads the most recent scroll position.
func (t *Tracker) lastScroll() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollY
}

// OnScroll feeds one scroll notification from the host environment.
// Multiple calls arriving before the next frame tick are coalesced; only
// the latest position is classified. Calls while idle are ignored.
func (t *Tracker) OnScroll(position float64) {
	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return
	}
	t.scrollY = position
	if t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = true
	gen := t.gen
	t.mu.Unlock()

	t.sched.Schedule(func() {
		t.recompute(gen)
	})
}

// recompute classifies the latest scroll position and notifies on change.
// A frame scheduled before a Detach or re-Attach carries a stale
// generation and is dropped.
func (t *Tracker) recompute(gen uint64) {
	t.mu.Lock()
	if !t.tracking || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.pending = false

	id := classify(t.entries, t.scrollY+t.threshold())
	changed := id != t.active
	t.active = id

	var subs []func(string)
	if changed {
		subs = make([]func(string), 0, len(t.subs))
		for _, fn := range t.subs {
			subs = append(subs, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range subs {
		t.notify(fn, id)
	}
}

// threshold resolves the effective look-ahead distance in pixels.
// Callers must hold t.mu.
func (t *Tracker) threshold() float64 {
	if t.thresholdPixels > 0 {
		return t.thresholdPixels
	}
	return t.thresholdRatio * t.viewport
}

// classify returns the id of the entry with the largest offset <= limit,
// or empty when none qualifies.
func classify(entries []offsetEntry, limit float64) string {
	// First entry with offset > limit; the one before it is the answer.
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].offset > limit
	})
	if i == 0 {
		return ""
	}
	return entries[i-1].id
}

// notify invokes one subscriber, containing panics so a faulty consumer
// cannot stop future notifications.
func (t *Tracker) notify(fn func(string), id string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("tracker subscriber panicked",
				"activeID", id,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	fn(id)
}
