package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// The acting user is always passed explicitly by the caller and stamped here;
// there is no ambient current-user lookup.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// NewAuditFields stamps fresh audit fields for a newly created entity.
func NewAuditFields(actingUserID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actingUserID,
	}
}

// Touch updates the last-modified audit fields in place.
func (a *AuditFields) Touch(actingUserID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actingUserID
}
