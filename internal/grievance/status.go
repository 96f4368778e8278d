package grievance

import (
	"context"
	"fmt"
	"grievance/backend/internal/models"
)

// UpdateStatus overwrites the status of grievance id. Any status may follow
// any other; only the status field changes.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of Pending, In Progress, Resolved", models.ErrInvalidArgument)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	g, err := s.Storage.UpdateGrievanceStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Metrics.StatusUpdated(string(status))
	return g, nil
}
