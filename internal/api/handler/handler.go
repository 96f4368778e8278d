package handler

import (
	"context"
	"grievance/backend/internal/analysis"
	"grievance/backend/internal/grievance"
	"grievance/backend/internal/models"
	"grievance/backend/internal/session"
	"net/http"
)

// GrievanceService is the grievance lifecycle used by the handlers.
type GrievanceService interface {
	Submit(ctx context.Context, in grievance.SubmitInput) (*models.Grievance, error)
	Get(ctx context.Context, id string) (*models.Grievance, error)
	ListAll(ctx context.Context) ([]models.Grievance, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Grievance, error)
	ListByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error)
	Reclassify(ctx context.Context, id string) (*models.Grievance, error)
	OverrideClassification(ctx context.Context, id string, in grievance.ClassificationInput) (*models.Grievance, error)
	Stats(ctx context.Context, departments []string) (analysis.Stats, error)
}

// AuthService issues, checks and revokes session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, sess session.Session) error
	Authenticate(ctx context.Context, token string) (session.Session, error)
	Me(ctx context.Context, sess session.Session) (*models.User, error)
}

// Handler holds the services behind the HTTP API.
type Handler struct {
	Grievances GrievanceService
	Auth       AuthService
	Metrics    http.Handler
}

// NewHandler creates a Handler. metrics may be nil, in which case /metrics
// is not registered.
func NewHandler(g GrievanceService, a AuthService, metrics http.Handler) *Handler {
	return &Handler{Grievances: g, Auth: a, Metrics: metrics}
}
