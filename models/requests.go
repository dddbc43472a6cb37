package models

// CreateSchoolRequest is the super admin payload for a new tenant.
type CreateSchoolRequest struct {
	ID              string `json:"id" validate:"omitempty,slug"`
	Name            string `json:"name" validate:"required,max=120"`
	AdminPassword   string `json:"adminPassword" validate:"required,min=4,max=72"`
	Timezone        string `json:"timezone" validate:"omitempty,timezone"`
	Locale          string `json:"locale" validate:"omitempty,oneof=en ka"`
	RefreshInterval int    `json:"refreshInterval" validate:"omitempty,oneof=5 10 20"`
}

// ProfileUpdate carries the editable top-level fields of a school.
type ProfileUpdate struct {
	Name            string `json:"name" validate:"required,max=120"`
	LogoURL         string `json:"logo" validate:"omitempty,url"`
	Timezone        string `json:"timezone" validate:"omitempty,timezone"`
	Locale          string `json:"locale" validate:"omitempty,oneof=en ka"`
	RefreshInterval int    `json:"refreshInterval" validate:"required,oneof=5 10 20"`
}

// DesignUpdate accepts either HSL or hex colors; they are stored as HSL.
type DesignUpdate struct {
	PrimaryColor    string `json:"primaryColor" validate:"required,color"`
	BackgroundColor string `json:"backgroundColor" validate:"required,color"`
	AccentColor     string `json:"accentColor" validate:"required,color"`
}

// BellUpdate replaces a school's bell settings.
type BellUpdate struct {
	SoundEnabled bool   `json:"soundEnabled"`
	Preset       string `json:"preset" validate:"required,bell_preset"`
	Volume       int    `json:"volume" validate:"min=0,max=100"`
	SoundURL     string `json:"soundUrl" validate:"omitempty,url"`
}

// ContentUpdate replaces the information board.
type ContentUpdate struct {
	Content string      `json:"content" validate:"max=5000"`
	Items   []BoardItem `json:"items" validate:"dive"`
}

// PasswordChange rotates a school's admin password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=4,max=72"`
}

// ScheduleUpdate replaces a school's whole schedule.
type ScheduleUpdate struct {
	Schedule []ScheduleItem `json:"schedule"`
}
