package utils

import "time"

// AdminSessionPrefix is the prefix used for Redis admin session keys.
const AdminSessionPrefix = "adminSession:"

// DefaultSessionTTL is how long an admin token stays valid when SESSION_TTL is unset.
const DefaultSessionTTL = 12 * time.Hour
