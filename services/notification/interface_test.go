package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"chronoboard/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "msg-1", f.err
}

func TestFCMRingNotifierSendsTopicMessage(t *testing.T) {
	sender := &fakeSender{}
	n, err := NewFCMRingNotifier(sender)
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)
	err = n.NotifyRing(context.Background(), RingEvent{
		SchoolID: "school-7",
		At:       at,
		Bell:     models.BellSettings{SoundEnabled: true, Preset: "school", Volume: 80},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "bell-school-7", msg.Topic)
	assert.Equal(t, "school", msg.Data["preset"])
	assert.Equal(t, "80", msg.Data["volume"])
	assert.Equal(t, "2026-03-02T08:45:00Z", msg.Data["at"])
	assert.NotContains(t, msg.Data, "soundUrl")
	assert.Nil(t, msg.Notification)
}

func TestRingMessageFallsBackToDefaultPreset(t *testing.T) {
	msg := RingMessage(RingEvent{SchoolID: "s", Bell: models.BellSettings{Preset: "gong", SoundURL: "https://x/y.mp3"}})
	assert.Equal(t, "default", msg.Data["preset"])
	assert.Equal(t, "https://x/y.mp3", msg.Data["soundUrl"])
}

func TestFCMRingNotifierWrapsErrors(t *testing.T) {
	boom := errors.New("quota")
	n, err := NewFCMRingNotifier(&fakeSender{err: boom})
	require.NoError(t, err)
	assert.ErrorIs(t, n.NotifyRing(context.Background(), RingEvent{SchoolID: "s"}), boom)

	_, err = NewFCMRingNotifier(nil)
	assert.Error(t, err)
}
