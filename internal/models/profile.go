package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Profile columns used by this service.
const (
	ProfileID         = "id"
	ProfileName       = "name"
	ProfileEmail      = "email"
	ProfileCourse     = "course"
	ProfileDepartment = "department"
	ProfileIsAdmin    = "is_admin"
	ProfileCreatedBy  = "created_by"
	ProfileActive     = "active"
	ProfileCreatedAt  = "created_at"
)

// DefaultCreatedBy is stored when the request does not name a creator.
const DefaultCreatedBy = "admin"

// ProvisioningRequest describes a user an administrator wants to create.
// Empty optional strings mean "not provided".
type ProvisioningRequest struct {
	Email      string
	Password   string
	Name       string
	IsAdmin    bool
	Course     string
	Department string
	CreatedBy  string
}

func (r ProvisioningRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Name, validation.Required),
	)
}

// Metadata is the bundle stored on the identity itself.
func (r ProvisioningRequest) Metadata() map[string]any {
	meta := map[string]any{
		MetadataName:    r.Name,
		MetadataIsAdmin: r.IsAdmin,
	}
	if r.Course != "" {
		meta[MetadataCourse] = r.Course
	}
	if r.Department != "" {
		meta[MetadataDepartment] = r.Department
	}
	if r.CreatedBy != "" {
		meta[MetadataCreatedBy] = r.CreatedBy
	}
	return meta
}

// ProfileRecord is a row for the profile store keyed by column name. The
// store's schema may lag behind the keys present here.
type ProfileRecord map[string]any

// NewProfileRecord builds the candidate profile row for a new identity.
func NewProfileRecord(identityID string, r ProvisioningRequest, now time.Time) ProfileRecord {
	createdBy := r.CreatedBy
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}

	record := ProfileRecord{
		ProfileID:        identityID,
		ProfileName:      r.Name,
		ProfileEmail:     r.Email,
		ProfileIsAdmin:   r.IsAdmin,
		ProfileCreatedBy: createdBy,
		ProfileActive:    true,
		ProfileCreatedAt: now.UTC(),
	}
	if r.Course != "" {
		record[ProfileCourse] = r.Course
	}
	if r.Department != "" {
		record[ProfileDepartment] = r.Department
	}
	return record
}

func (p ProfileRecord) Has(column string) bool {
	_, ok := p[column]
	return ok
}

// Without returns a copy of the record minus column.
func (p ProfileRecord) Without(column string) ProfileRecord {
	next := make(ProfileRecord, len(p))
	for k, v := range p {
		if k != column {
			next[k] = v
		}
	}
	return next
}
