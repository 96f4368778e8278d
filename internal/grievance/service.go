// Package grievance provides the lifecycle logic for citizen grievances:
// submission with classification, department queues, status updates and
// re-classification of submissions the classifier could not handle.
package grievance

import (
	"context"
	"fmt"
	"grievance/backend/internal/analysis"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/metrics"
	"grievance/backend/internal/models"
	"grievance/backend/internal/rbac"
	"grievance/backend/internal/session"
	"grievance/backend/internal/storage"
	"time"
)

// Service handles the business logic for grievances.
type Service struct {
	Storage    storage.Storage
	Classifier classifier.Classifier
	Metrics    *metrics.Metrics

	now func() time.Time
}

// NewService creates a new grievance service. m may be nil.
func NewService(s storage.Storage, c classifier.Classifier, m *metrics.Metrics) *Service {
	return &Service{
		Storage:    s,
		Classifier: c,
		Metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Get returns one grievance, subject to the caller's department scope.
func (s *Service) Get(ctx context.Context, id string) (*models.Grievance, error) {
	g, err := s.Storage.GetGrievanceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeGrievance(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListAll returns every grievance. There is no pagination.
func (s *Service) ListAll(ctx context.Context) ([]models.Grievance, error) {
	return s.Storage.ListGrievances(ctx)
}

// ListByDepartment returns the department's queue ordered by descending
// priority score, unscored grievances last and oldest first.
func (s *Service) ListByDepartment(ctx context.Context, department string) ([]models.Grievance, error) {
	if department == "" {
		return nil, models.NewValidationError("department", "required")
	}
	if err := authorizeDepartment(ctx, department); err != nil {
		return nil, err
	}

	list, err := s.Storage.ListGrievancesByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("grievance.ListByDepartment: %w", err)
	}
	analysis.SortForDepartment(list)
	return list, nil
}

// ListByCitizen returns the grievances submitted by citizenRef.
func (s *Service) ListByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error) {
	if citizenRef == "" {
		return nil, models.NewValidationError("citizen", "required")
	}
	return s.Storage.ListGrievancesByCitizen(ctx, citizenRef)
}

// Stats aggregates all grievances, or only those of the given departments.
func (s *Service) Stats(ctx context.Context, departments []string) (analysis.Stats, error) {
	var (
		list []models.Grievance
		err  error
	)
	if len(departments) == 0 {
		list, err = s.Storage.ListGrievances(ctx)
	} else {
		list, err = s.Storage.ListGrievancesInDepartments(ctx, departments)
	}
	if err != nil {
		return analysis.Stats{}, fmt.Errorf("grievance.Stats: %w", err)
	}
	return analysis.Summarize(list), nil
}

// authorizeDepartment applies the department scope of the session in ctx.
// Calls without a session come from trusted tooling and are not scoped.
func authorizeDepartment(ctx context.Context, department string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil
	}
	if !rbac.CanAccessDepartment(sess.Role, sess.Department, department) {
		return models.ErrForbidden
	}
	return nil
}

func authorizeGrievance(ctx context.Context, g *models.Grievance) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil
	}
	switch sess.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCitizen:
		if g.CitizenRef == sess.UserID {
			return nil
		}
		return models.ErrForbidden
	}
	if g.Department == nil {
		return models.ErrForbidden
	}
	return authorizeDepartment(ctx, *g.Department)
}
