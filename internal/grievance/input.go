package grievance

import (
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"strings"
	"unicode/utf8"
)

// SubmitInput holds the fields of a new grievance.
type SubmitInput struct {
	Title       string
	Description string
	CitizenRef  string
}

func (i *SubmitInput) normalize() {
	i.Title = strings.TrimSpace(i.Title)
	i.Description = strings.TrimSpace(i.Description)
	i.CitizenRef = strings.TrimSpace(i.CitizenRef)
}

// Validate checks required fields and length limits.
func (i SubmitInput) Validate() error {
	var errs []models.FieldError

	if i.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "required"})
	} else if utf8.RuneCountInString(i.Title) > config.MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "too long"})
	}

	if i.Description == "" {
		errs = append(errs, models.FieldError{Field: "description", Message: "required"})
	} else if utf8.RuneCountInString(i.Description) > config.MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "too long"})
	}

	if i.CitizenRef == "" {
		errs = append(errs, models.FieldError{Field: "citizen", Message: "required"})
	}

	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}

// ClassificationInput is an administrative correction of the routing.
type ClassificationInput struct {
	Department    string
	Priority      models.Priority
	PriorityScore *float64
}

func (i ClassificationInput) Validate() error {
	var errs []models.FieldError
	if strings.TrimSpace(i.Department) == "" {
		errs = append(errs, models.FieldError{Field: "department", Message: "required"})
	}
	if !i.Priority.Valid() {
		errs = append(errs, models.FieldError{Field: "priority", Message: "must be one of Low, Medium, High, Critical"})
	}
	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}
