package grievance_test

import (
	"context"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func grievanceOrNil(args mock.Arguments) (*models.Grievance, error) {
	if g, ok := args.Get(0).(*models.Grievance); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func listOrNil(args mock.Arguments) ([]models.Grievance, error) {
	if l, ok := args.Get(0).([]models.Grievance); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateGrievance(ctx context.Context, g *models.Grievance) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStorage) GetGrievanceByID(ctx context.Context, id string) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id))
}

func (m *MockStorage) ListGrievances(ctx context.Context) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx))
}

func (m *MockStorage) ListGrievancesByDepartment(ctx context.Context, department string) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx, department))
}

func (m *MockStorage) ListGrievancesInDepartments(ctx context.Context, departments []string) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx, departments))
}

func (m *MockStorage) ListGrievancesByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error) {
	return listOrNil(m.Called(ctx, citizenRef))
}

func (m *MockStorage) UpdateGrievanceStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id, status))
}

func (m *MockStorage) UpdateGrievanceClassification(ctx context.Context, id string, c models.Classification) (*models.Grievance, error) {
	return grievanceOrNil(m.Called(ctx, id, c))
}

func (m *MockStorage) UpdateGrievanceClassificationIfPending(ctx context.Context, id string, c models.Classification) (*models.Grievance, bool, error) {
	args := m.Called(ctx, id, c)
	g, _ := args.Get(0).(*models.Grievance)
	return g, args.Bool(1), args.Error(2)
}

func (m *MockStorage) ListUnclassifiedGrievanceIDs(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStorage) AddToReclassifyQueue(ctx context.Context, grievanceID string) error {
	args := m.Called(ctx, grievanceID)
	return args.Error(0)
}

func (m *MockStorage) RemoveFromReclassifyQueue(ctx context.Context, grievanceID string) error {
	args := m.Called(ctx, grievanceID)
	return args.Error(0)
}

func (m *MockStorage) GetReclassifyQueue(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, description string) (classifier.Result, error) {
	args := m.Called(ctx, description)
	return args.Get(0).(classifier.Result), args.Error(1)
}
