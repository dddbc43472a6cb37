package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"chronoboard/models"
	"chronoboard/services/bell"

	"firebase.google.com/go/v4/messaging"
)

// RingEvent describes one bell ring for one school.
type RingEvent struct {
	SchoolID string
	At       time.Time
	Bell     models.BellSettings
}

// RingNotifier pushes bell rings to devices outside the board page.
type RingNotifier interface {
	NotifyRing(ctx context.Context, event RingEvent) error
}

// Sender is the subset of the FCM client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMRingNotifier sends a data-only message to the topic bell-<schoolId>.
type FCMRingNotifier struct {
	client Sender
}

func NewFCMRingNotifier(client Sender) (*FCMRingNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("ring notifier initialization error: FCM client is nil")
	}
	return &FCMRingNotifier{client: client}, nil
}

// Topic returns the FCM topic a school's devices subscribe to.
func Topic(schoolID string) string {
	return "bell-" + schoolID
}

// RingMessage builds the FCM payload for event.
func RingMessage(event RingEvent) *messaging.Message {
	preset := bell.Resolve(event.Bell.Preset)
	data := map[string]string{
		"type":     "bell",
		"schoolId": event.SchoolID,
		"preset":   preset.Key,
		"volume":   strconv.Itoa(event.Bell.Volume),
		"at":       event.At.UTC().Format(time.RFC3339),
	}
	if event.Bell.SoundURL != "" {
		data["soundUrl"] = event.Bell.SoundURL
	}
	return &messaging.Message{
		Topic: Topic(event.SchoolID),
		Data:  data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			TTL:      ttl(30 * time.Second),
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "background",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{ContentAvailable: true},
			},
		},
	}
}

func ttl(d time.Duration) *time.Duration { return &d }

func (n *FCMRingNotifier) NotifyRing(ctx context.Context, event RingEvent) error {
	if _, err := n.client.Send(ctx, RingMessage(event)); err != nil {
		return fmt.Errorf("NotifyRing: failed to send FCM message for %s: %w", event.SchoolID, err)
	}
	return nil
}

// NopNotifier is used when FCM is disabled.
type NopNotifier struct{}

func (NopNotifier) NotifyRing(context.Context, RingEvent) error { return nil }
