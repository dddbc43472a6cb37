package models

// Admin roles carried in the JWT "role" claim.
const (
	RoleSchoolAdmin = "school_admin"
	RoleSuperAdmin  = "super_admin"
)

// SuperAdminSubject is the "sub" claim of super admin tokens. It is not a
// valid school id, so per-school session revocation never reaches it.
const SuperAdminSubject = "_super"

// LoginRequest is the body of both admin login endpoints.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful admin login.
type AuthResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	SchoolID  string `json:"schoolId,omitempty"`
	ExpiresAt int64  `json:"expiresAt"`
}
