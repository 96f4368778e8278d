package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the resolution state of a grievance.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Priority is the urgency level assigned by the classifier.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Grievance is a citizen complaint routed to a department for resolution.
// Department and Priority stay nil until the classifier has answered.
type Grievance struct {
	// ID is the UUID of the grievance, generated on insert.
	ID          string `gorm:"type:uuid;primaryKey" json:"_id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	// CitizenRef is the user ID of the submitting citizen.
	CitizenRef string `gorm:"type:text;not null;index" json:"citizen"`

	Department    *string   `gorm:"type:text;index" json:"department"`
	Priority      *Priority `gorm:"type:text" json:"priority"`
	PriorityScore *float64  `json:"priorityScore,omitempty"`
	MassComplaint bool      `gorm:"not null;default:false" json:"massComplaint"`

	Status Status `gorm:"type:text;not null;default:'Pending';index" json:"status"`

	// NeedsReclassification is set when the classifier could not be reached at
	// submission time.
	NeedsReclassification bool `gorm:"not null;default:false;index" json:"needsReclassification"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// BeforeCreate generates the UUID and fills the creation defaults.
func (g *Grievance) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Status == "" {
		g.Status = StatusPending
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	return
}

// Classification is the routing decision applied to a grievance, either from
// the classifier or from an administrative correction.
type Classification struct {
	Department    string
	Priority      Priority
	PriorityScore *float64
	MassComplaint bool
}

// Classified reports whether the classifier fields are set.
func (g *Grievance) Classified() bool {
	return g.Department != nil && g.Priority != nil
}
