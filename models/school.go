// File: models/school.go
package models

import "time"

// Schedule item kinds.
const (
	KindLesson = "lesson"
	KindBreak  = "break"
)

// Allowed board refresh intervals, in minutes.
var RefreshIntervals = []int{5, 10, 20}

// ScheduleItem is one bell period. Times are zero-padded 24h "HH:MM" strings.
type ScheduleItem struct {
	ID        string `firestore:"id" bson:"id" json:"id"`
	Name      string `firestore:"name" bson:"name" json:"name"`
	Kind      string `firestore:"kind" bson:"kind" json:"kind,omitempty"`
	StartTime string `firestore:"startTime" bson:"startTime" json:"startTime"`
	EndTime   string `firestore:"endTime" bson:"endTime" json:"endTime"`
}

// IsBreak reports whether the item is non-instructional time.
func (i ScheduleItem) IsBreak() bool {
	return i.Kind == KindBreak
}

// Design holds the board colors as HSL strings ("H S% L%").
type Design struct {
	PrimaryColor    string `firestore:"primaryColor" bson:"primaryColor" json:"primaryColor"`
	BackgroundColor string `firestore:"backgroundColor" bson:"backgroundColor" json:"backgroundColor"`
	AccentColor     string `firestore:"accentColor" bson:"accentColor" json:"accentColor"`
}

// DefaultDesign is applied to new schools and on reset.
var DefaultDesign = Design{
	PrimaryColor:    "275 100% 25.3%",
	BackgroundColor: "240 67% 94.1%",
	AccentColor:     "276 100% 50%",
}

// BellSettings controls how a school's board rings.
type BellSettings struct {
	SoundEnabled bool   `firestore:"soundEnabled" bson:"soundEnabled" json:"soundEnabled"`
	Preset       string `firestore:"preset" bson:"preset" json:"preset"`
	Volume       int    `firestore:"volume" bson:"volume" json:"volume"`
	SoundURL     string `firestore:"soundUrl,omitempty" bson:"soundUrl,omitempty" json:"soundUrl,omitempty"`
}

// DefaultBell is applied to new schools.
var DefaultBell = BellSettings{
	SoundEnabled: true,
	Preset:       "default",
	Volume:       50,
}

// BoardItem is one slide of the information carousel.
type BoardItem struct {
	ID          string `firestore:"id" bson:"id" json:"id"`
	Title       string `firestore:"title" bson:"title" json:"title" validate:"required,max=200"`
	Description string `firestore:"description" bson:"description" json:"description" validate:"max=2000"`
	ImageURL    string `firestore:"imageUrl" bson:"imageUrl" json:"imageUrl" validate:"omitempty,url"`
	ImageHint   string `firestore:"imageHint,omitempty" bson:"imageHint,omitempty" json:"imageHint,omitempty"`
}

// InfoBoard is the rotating information side of the display.
type InfoBoard struct {
	Content string      `firestore:"content" bson:"content" json:"content"`
	Items   []BoardItem `firestore:"items" bson:"items" json:"items"`
}

// School is the tenant record. One document per school.
type School struct {
	ID              string         `firestore:"-" bson:"id" json:"id"`
	Name            string         `firestore:"name" bson:"name" json:"name"`
	LogoURL         string         `firestore:"logo,omitempty" bson:"logo,omitempty" json:"logo,omitempty"`
	Timezone        string         `firestore:"timezone" bson:"timezone" json:"timezone"`
	Locale          string         `firestore:"locale" bson:"locale" json:"locale"`
	Design          Design         `firestore:"design" bson:"design" json:"design"`
	Schedule        []ScheduleItem `firestore:"schedule" bson:"schedule" json:"schedule"`
	Bell            BellSettings   `firestore:"bellSettings" bson:"bellSettings" json:"bellSettings"`
	InfoBoard       InfoBoard      `firestore:"infoBoard" bson:"infoBoard" json:"infoBoard"`
	RefreshInterval int            `firestore:"refreshInterval" bson:"refreshInterval" json:"refreshInterval"`
	// AdminPasswordHash is a bcrypt hash; never serialized to clients.
	AdminPasswordHash string    `firestore:"adminPasswordHash" bson:"adminPasswordHash" json:"-"`
	CreatedAt         time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}

// Location resolves the school's timezone, falling back to fallback when unset or unknown.
func (s *School) Location(fallback *time.Location) *time.Location {
	if s.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// Clone returns a deep copy so callers can mutate slices freely.
func (s *School) Clone() *School {
	if s == nil {
		return nil
	}
	out := *s
	out.Schedule = append([]ScheduleItem(nil), s.Schedule...)
	out.InfoBoard.Items = append([]BoardItem(nil), s.InfoBoard.Items...)
	return &out
}
