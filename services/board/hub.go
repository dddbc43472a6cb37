// Package board runs the once-per-second evaluation loop that drives every
// connected school display.
package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"chronoboard/models"
	"chronoboard/services/notification"
	"chronoboard/services/schedule"
	"chronoboard/utils"

	"go.uber.org/zap"
)

// RingWindow is how long a frame reports ringing after a ring tick.
const RingWindow = 5 * time.Second

// subscriberBuffer is the per-subscriber frame backlog; older frames are dropped.
const subscriberBuffer = 4

var (
	ErrHubStopped  = errors.New("board hub stopped")
	ErrNotTracked  = errors.New("school not tracked")
	errNilSnapshot = errors.New("nil school snapshot")
)

// SchoolLoader is the read side of the school repository.
type SchoolLoader interface {
	GetByID(ctx context.Context, id string) (*models.School, error)
	List(ctx context.Context) ([]models.School, error)
}

// Frame is one tick's output for one school.
type Frame struct {
	SchoolID  string              `json:"schoolId"`
	Now       time.Time           `json:"now"`
	Clock     string              `json:"clock"`
	State     schedule.State      `json:"state"`
	Ringing   bool                `json:"ringing"`
	Bell      models.BellSettings `json:"bell"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type subscriber struct {
	ch     chan Frame
	closed bool
}

type tracked struct {
	school *models.School
	loc    *time.Location
	labels schedule.Labels
	subs   map[*subscriber]struct{}
	pinned bool

	ringUntil time.Time
	lastRing  time.Time
}

// Hub evaluates tracked schools on a single ticker and fans frames out to subscribers.
type Hub struct {
	loader   SchoolLoader
	notifier notification.RingNotifier
	now      func() time.Time
	interval time.Duration
	fallback *time.Location
	logger   *zap.Logger

	mu      sync.Mutex
	schools map[string]*tracked
	stopped bool

	notifyWG sync.WaitGroup
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// WithTickInterval overrides the 1s tick.
func WithTickInterval(d time.Duration) Option {
	return func(h *Hub) { h.interval = d }
}

// WithFallbackLocation sets the zone used for schools without a valid timezone.
func WithFallbackLocation(loc *time.Location) Option {
	return func(h *Hub) { h.fallback = loc }
}

func NewHub(loader SchoolLoader, notifier notification.RingNotifier, opts ...Option) *Hub {
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	h := &Hub{
		loader:   loader,
		notifier: notifier,
		now:      time.Now,
		interval: time.Second,
		fallback: time.UTC,
		logger:   utils.GetLogger().Named("board"),
		schools:  make(map[string]*tracked),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) newTracked(school *models.School) *tracked {
	t := &tracked{subs: make(map[*subscriber]struct{})}
	t.setSnapshot(school, h.fallback)
	return t
}

func (t *tracked) setSnapshot(school *models.School, fallback *time.Location) {
	t.school = school
	t.loc = school.Location(fallback)
	t.labels = schedule.LabelsFor(school.Locale)
}

func (h *Hub) load(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := h.loader.GetByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, errNilSnapshot
	}
	return school, nil
}

// Track loads a school and keeps it evaluated without subscribers.
func (h *Hub) Track(ctx context.Context, schoolID string) error {
	school, err := h.load(ctx, schoolID)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return ErrHubStopped
	}
	t, ok := h.schools[schoolID]
	if !ok {
		t = h.newTracked(school)
		h.schools[schoolID] = t
	} else {
		t.setSnapshot(school, h.fallback)
	}
	t.pinned = true
	return nil
}

// TrackAll pins every stored school; used at boot.
func (h *Hub) TrackAll(ctx context.Context) (int, error) {
	schools, err := h.loader.List(ctx)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return 0, ErrHubStopped
	}
	for i := range schools {
		school := schools[i]
		t, ok := h.schools[school.ID]
		if !ok {
			t = h.newTracked(&school)
			h.schools[school.ID] = t
		} else {
			t.setSnapshot(&school, h.fallback)
		}
		t.pinned = true
	}
	return len(schools), nil
}

// Subscribe registers a frame stream for a school. The returned cancel func
// is idempotent; the channel is closed on cancel, on school deletion, or when
// the hub stops.
func (h *Hub) Subscribe(ctx context.Context, schoolID string) (<-chan Frame, func(), error) {
	h.mu.Lock()
	_, known := h.schools[schoolID]
	h.mu.Unlock()

	var school *models.School
	if !known {
		var err error
		if school, err = h.load(ctx, schoolID); err != nil {
			return nil, nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil, nil, ErrHubStopped
	}
	t, ok := h.schools[schoolID]
	if !ok {
		if school == nil {
			// untracked between the two locks
			return nil, nil, ErrNotTracked
		}
		t = h.newTracked(school)
		h.schools[schoolID] = t
	}
	sub := &subscriber{ch: make(chan Frame, subscriberBuffer)}
	t.subs[sub] = struct{}{}

	// First frame right away so displays don't wait for the next tick.
	sub.ch <- h.frameLocked(schoolID, t, h.now())

	var once sync.Once
	cancel := func() {
		once.Do(func() { h.unsubscribe(schoolID, sub) })
	}
	return sub.ch, cancel, nil
}

func (h *Hub) unsubscribe(schoolID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !sub.closed {
		close(sub.ch)
		sub.closed = true
	}
	t, ok := h.schools[schoolID]
	if !ok {
		return
	}
	delete(t.subs, sub)
	if len(t.subs) == 0 && !t.pinned {
		delete(h.schools, schoolID)
	}
}

// Reload re-reads a tracked school. Untracked schools are ignored. A failed
// read keeps the last good snapshot.
func (h *Hub) Reload(ctx context.Context, schoolID string) error {
	h.mu.Lock()
	_, ok := h.schools[schoolID]
	h.mu.Unlock()
	if !ok {
		return nil
	}

	school, err := h.load(ctx, schoolID)
	if err != nil {
		h.logger.Warn("Snapshot reload failed, keeping last good copy",
			zap.String("schoolId", schoolID), zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.schools[schoolID]; ok {
		t.setSnapshot(school, h.fallback)
	}
	return nil
}

// Forget stops tracking a school and closes its subscribers.
func (h *Hub) Forget(schoolID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.schools[schoolID]
	if !ok {
		return
	}
	for sub := range t.subs {
		if !sub.closed {
			close(sub.ch)
			sub.closed = true
		}
	}
	delete(h.schools, schoolID)
}

// ReloadAll refreshes every tracked school and joins the failures.
func (h *Hub) ReloadAll(ctx context.Context) error {
	var errs []error
	for _, id := range h.Tracked() {
		if err := h.Reload(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tracked lists the ids currently evaluated.
func (h *Hub) Tracked() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.schools))
	for id := range h.schools {
		ids = append(ids, id)
	}
	return ids
}

// Evaluate returns a one-shot frame. Untracked schools are read from the
// repository and not retained.
func (h *Hub) Evaluate(ctx context.Context, schoolID string) (Frame, error) {
	h.mu.Lock()
	if t, ok := h.schools[schoolID]; ok {
		f := h.frameLocked(schoolID, t, h.now())
		h.mu.Unlock()
		return f, nil
	}
	h.mu.Unlock()

	school, err := h.load(ctx, schoolID)
	if err != nil {
		return Frame{}, err
	}
	return h.frameLocked(schoolID, h.newTracked(school), h.now()), nil
}

// frameLocked evaluates t at now. Callers hold h.mu or own t exclusively.
func (h *Hub) frameLocked(schoolID string, t *tracked, now time.Time) Frame {
	local := now.In(t.loc)
	st := schedule.Evaluate(t.school.Schedule, local, t.labels)
	return Frame{
		SchoolID:  schoolID,
		Now:       local,
		Clock:     local.Format("15:04:05"),
		State:     st,
		Ringing:   st.Ring || now.Before(t.ringUntil),
		Bell:      t.school.Bell,
		UpdatedAt: t.school.UpdatedAt,
	}
}

// tick evaluates every tracked school once and publishes the frames.
func (h *Hub) tick(ctx context.Context, now time.Time) {
	var rings []notification.RingEvent

	h.mu.Lock()
	for id, t := range h.schools {
		f := h.frameLocked(id, t, now)
		if ringDue(t, f) {
			t.lastRing = f.Now.Truncate(time.Minute)
			t.ringUntil = now.Add(RingWindow)
			f.State.Ring = true
			f.Ringing = true
			if t.school.Bell.SoundEnabled {
				rings = append(rings, notification.RingEvent{SchoolID: id, At: now, Bell: t.school.Bell})
			}
		}
		for sub := range t.subs {
			select {
			case sub.ch <- f:
			default:
				// slow subscriber, drop this frame
			}
		}
	}
	h.mu.Unlock()

	for _, ev := range rings {
		h.notify(ctx, ev)
	}
}

// ringDue reports whether this tick should fire the bell. A tick that lands
// late in a boundary minute still rings, as long as it is inside RingWindow
// and nothing rang for that minute yet.
func ringDue(t *tracked, f Frame) bool {
	minute := f.Now.Truncate(time.Minute)
	if minute.Equal(t.lastRing) {
		return false
	}
	if f.State.Ring {
		return true
	}
	return f.Now.Sub(minute) < RingWindow && schedule.IsBoundary(t.school.Schedule, f.Now)
}

func (h *Hub) notify(ctx context.Context, ev notification.RingEvent) {
	h.notifyWG.Add(1)
	go func() {
		defer h.notifyWG.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := h.notifier.NotifyRing(nctx, ev); err != nil {
			h.logger.Warn("Ring notification failed", zap.String("schoolId", ev.SchoolID), zap.Error(err))
		}
	}()
}

// Run ticks until ctx is cancelled, then closes every subscriber channel and
// waits for in-flight ring notifications.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case <-ticker.C:
			h.tick(ctx, h.now())
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	h.stopped = true
	for id, t := range h.schools {
		for sub := range t.subs {
			if !sub.closed {
				close(sub.ch)
				sub.closed = true
			}
		}
		delete(h.schools, id)
	}
	h.mu.Unlock()
	h.notifyWG.Wait()
	h.logger.Info("Board hub stopped")
}
