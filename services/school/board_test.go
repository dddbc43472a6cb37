package school

import (
	"context"
	"sync"
	"testing"
	"time"

	"chronoboard/models"
	"chronoboard/services/board"
	"chronoboard/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ringRecorder struct {
	mu      sync.Mutex
	schools []string
}

func (r *ringRecorder) NotifyRing(_ context.Context, ev notification.RingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schools = append(r.schools, ev.SchoolID)
	return nil
}

func (r *ringRecorder) rung() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.schools...)
}

func TestCreatedSchoolRingsWithoutRestart(t *testing.T) {
	f := newFixture(t)
	rings := &ringRecorder{}
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	hub := board.NewHub(f.repo, rings,
		board.WithClock(func() time.Time { return at }),
		board.WithTickInterval(5*time.Millisecond))
	f.svc.Publisher = hub

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	_, err := f.svc.CreateSchool(context.Background(), models.CreateSchoolRequest{
		ID:            "late-joiner",
		Name:          "Late Joiner",
		Timezone:      "UTC",
		AdminPassword: "secret-1",
	})
	require.NoError(t, err)
	assert.Contains(t, hub.Tracked(), "late-joiner")

	_, err = f.svc.ReplaceSchedule(context.Background(), "late-joiner", []models.ScheduleItem{
		{ID: "p1", Name: "Period 1", StartTime: "08:00", EndTime: "08:45"},
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(rings.rung()) > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"late-joiner"}, rings.rung()[:1])

	frame, err := hub.Evaluate(context.Background(), "late-joiner")
	require.NoError(t, err)
	require.NotNil(t, frame.State.ActiveItemID)
	assert.Equal(t, "p1", *frame.State.ActiveItemID)
	assert.True(t, frame.Ringing)
}

func TestCreateSchoolTracksOnPublisher(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")
	assert.Equal(t, []string{"a"}, f.publisher.tracked)
}
