package models

import (
	"time"
)

// Metadata keys written to an identity at creation time.
const (
	MetadataName       = "name"
	MetadataIsAdmin    = "is_admin"
	MetadataCourse     = "course"
	MetadataDepartment = "department"
	MetadataCreatedBy  = "created_by"
)

// Identity is a user record owned by the identity platform.
type Identity struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// MetadataAdmin reports the is_admin flag stored in user metadata. Only a
// boolean true counts.
func (i *Identity) MetadataAdmin() bool {
	if i == nil || i.UserMetadata == nil {
		return false
	}
	flag, ok := i.UserMetadata[MetadataIsAdmin].(bool)
	return ok && flag
}

// Caller is an identity proven by a bearer credential on the current request.
type Caller struct {
	Identity *Identity
	Token    string
	// ExpiresAt is the credential's exp claim; zero when the token has none.
	ExpiresAt time.Time
}

func (c *Caller) ID() string {
	if c == nil || c.Identity == nil {
		return ""
	}
	return c.Identity.ID
}
