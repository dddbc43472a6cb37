package models

import "time"

// Audit actions recorded for admin edits.
const (
	ActionSchoolCreated   = "school.created"
	ActionSchoolDeleted   = "school.deleted"
	ActionScheduleUpdated = "schedule.updated"
	ActionDesignUpdated   = "design.updated"
	ActionDesignReset     = "design.reset"
	ActionBellUpdated     = "bell.updated"
	ActionContentUpdated  = "content.updated"
	ActionProfileUpdated  = "profile.updated"
	ActionPasswordChanged = "password.changed"
	ActionImageUploaded   = "image.uploaded"
	ActionAdminLogin      = "admin.login"
)

// AuditLog is one admin change record.
type AuditLog struct {
	ID        string    `bson:"id" json:"id"`
	SchoolID  string    `bson:"schoolId" json:"schoolId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Action    string    `bson:"action" json:"action"`
	Actor     string    `bson:"actor" json:"actor"` // "school_admin" or "super_admin"
	Details   string    `bson:"details" json:"details"`
}
