package handler_test

import (
	"context"
	"grievance/backend/internal/analysis"
	"grievance/backend/internal/grievance"
	"grievance/backend/internal/models"
	"grievance/backend/internal/session"

	"github.com/stretchr/testify/mock"
)

type MockGrievanceService struct {
	mock.Mock
}

func grievanceOrNil(args mock.Arguments) (*models.Grievance, error) {
	g, _ := args.Get(0).(*models.Grievance)
	return g, args.Error(1)
}

func listOrNil(args mock.Arguments) ([]models.Grievance, error) {
	l, _ := args.Get(0).([]models.Grievance)
	return l, args.Error(1)
}

func (m *MockGrievanceService) Submit(ctx context.Context, in grievance.SubmitInput) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, in))
}

func (m *MockGrievanceService) Get(ctx context.Context, id string) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id))
}

func (m *MockGrievanceService) ListAll(ctx context.Context) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx))
}

func (m *MockGrievanceService) ListByDepartment(ctx context.Context, department string) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx, department))
}

func (m *MockGrievanceService) ListByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx, citizenRef))
}

func (m *MockGrievanceService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id, status))
}

func (m *MockGrievanceService) Reclassify(ctx context.Context, id string) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id))
}

func (m *MockGrievanceService) OverrideClassification(ctx context.Context, id string, in grievance.ClassificationInput) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id, in))
}

func (m *MockGrievanceService) Stats(ctx context.Context, departments []string) (analysis.Stats, error) {
	args := m.Called(ctx, departments)
	return args.Get(0).(analysis.Stats), args.Error(1)
}

// MockAuth resolves a fixed set of tokens to sessions.
type MockAuth struct {
	mock.Mock
	sessions map[string]session.Session
}

func newMockAuth() *MockAuth {
	return &MockAuth{sessions: map[string]session.Session{
		"citizen-token":  {UserID: "u1", Name: "Asha", Role: models.RoleCitizen, TokenID: "t1"},
		"official-token": {UserID: "o1", Name: "Ravi", Role: models.RoleDepartmentOfficial, Department: "Water", TokenID: "t2"},
		"admin-token":    {UserID: "a1", Name: "Meera", Role: models.RoleAdmin, TokenID: "t3"},
	}}
}

func (m *MockAuth) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuth) Logout(ctx context.Context, sess session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockAuth) Me(ctx context.Context, sess session.Session) (*models.User, error) {
	args := m.Called(ctx, sess)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuth) Authenticate(_ context.Context, token string) (session.Session, error) {
	sess, ok := m.sessions[token]
	if !ok {
		return session.Session{}, models.ErrUnauthorized
	}
	return sess, nil
}
