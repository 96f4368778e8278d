package storage

import (
	"context"
	"errors"
	"fmt"
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Storage interface {
	CreateGrievance(ctx context.Context, g *models.Grievance) error
	GetGrievanceByID(ctx context.Context, id string) (*models.Grievance, error)
	ListGrievances(ctx context.Context) ([]models.Grievance, error)
	ListGrievancesByDepartment(ctx context.Context, department string) ([]models.Grievance, error)
	ListGrievancesInDepartments(ctx context.Context, departments []string) ([]models.Grievance, error)
	ListGrievancesByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error)
	UpdateGrievanceStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error)
	UpdateGrievanceClassification(ctx context.Context, id string, c models.Classification) (*models.Grievance, error)
	UpdateGrievanceClassificationIfPending(ctx context.Context, id string, c models.Classification) (*models.Grievance, bool, error)
	ListUnclassifiedGrievanceIDs(ctx context.Context, limit int) ([]string, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	AddToReclassifyQueue(ctx context.Context, grievanceID string) error
	RemoveFromReclassifyQueue(ctx context.Context, grievanceID string) error
	GetReclassifyQueue(ctx context.Context, limit int) ([]string, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil for tools that never touch
// the reclassification queue.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the tables for all persisted models.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Grievance{},
		&models.User{},
	)
}

// CreateGrievance inserts a new grievance; the BeforeCreate hook fills its ID.
func (s *Service) CreateGrievance(ctx context.Context, g *models.Grievance) error {
	if err := s.DB.WithContext(ctx).Create(g).Error; err != nil {
		log.Printf("ERROR: Failed to save grievance for citizen %s: %v", g.CitizenRef, err)
		return err
	}
	return nil
}

// GetGrievanceByID returns models.ErrNotFound for unknown or malformed IDs.
func (s *Service) GetGrievanceByID(ctx context.Context, id string) (*models.Grievance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	var g models.Grievance
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get grievance %s: %v", id, err)
		return nil, err
	}
	return &g, nil
}

// ListGrievances returns the full collection, oldest first.
func (s *Service) ListGrievances(ctx context.Context) ([]models.Grievance, error) {
	var list []models.Grievance
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&list).Error; err != nil {
		log.Printf("ERROR: Failed to list grievances: %v", err)
		return nil, err
	}
	return list, nil
}

// ListGrievancesByDepartment returns the grievances routed to department,
// highest score first; unscored ones go last, oldest first.
func (s *Service) ListGrievancesByDepartment(ctx context.Context, department string) ([]models.Grievance, error) {
	var list []models.Grievance
	err := departmentQueue(s.DB.WithContext(ctx), department).Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list grievances for department %s: %v", department, err)
		return nil, err
	}
	return list, nil
}

// ListGrievancesInDepartments returns grievances whose department is any of
// departments.
func (s *Service) ListGrievancesInDepartments(ctx context.Context, departments []string) ([]models.Grievance, error) {
	var list []models.Grievance
	err := s.DB.WithContext(ctx).
		Where("department = ANY(?)", pq.Array(departments)).
		Order("created_at asc").
		Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list grievances for departments %v: %v", departments, err)
		return nil, err
	}
	return list, nil
}

// ListGrievancesByCitizen returns the caller's own grievances, newest first.
func (s *Service) ListGrievancesByCitizen(ctx context.Context, citizenRef string) ([]models.Grievance, error) {
	var list []models.Grievance
	err := s.DB.WithContext(ctx).
		Where("citizen_ref = ?", citizenRef).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list grievances for citizen %s: %v", citizenRef, err)
		return nil, err
	}
	return list, nil
}

// UpdateGrievanceStatus overwrites only the status column and returns the
// stored record. Concurrent updates are last-write-wins.
func (s *Service) UpdateGrievanceStatus(ctx context.Context, id string, status models.Status) (*models.Grievance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	result := statusUpdate(s.DB.WithContext(ctx), id, status)
	if result.Error != nil {
		log.Printf("ERROR: Failed to update status of grievance %s: %v", id, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetGrievanceByID(ctx, id)
}

// UpdateGrievanceClassification stores a routing decision and clears the
// reclassification flag.
func (s *Service) UpdateGrievanceClassification(ctx context.Context, id string, c models.Classification) (*models.Grievance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	result := classificationUpdate(s.DB.WithContext(ctx), id, c, false)
	if result.Error != nil {
		log.Printf("ERROR: Failed to classify grievance %s: %v", id, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetGrievanceByID(ctx, id)
}

// UpdateGrievanceClassificationIfPending stores a classifier result only
// while the grievance is still flagged for re-classification. The bool
// reports whether the write happened; either way the stored record is
// returned, so a correction made in the meantime wins.
func (s *Service) UpdateGrievanceClassificationIfPending(ctx context.Context, id string, c models.Classification) (*models.Grievance, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, models.ErrNotFound
	}

	result := classificationUpdate(s.DB.WithContext(ctx), id, c, true)
	if result.Error != nil {
		log.Printf("ERROR: Failed to classify grievance %s: %v", id, result.Error)
		return nil, false, result.Error
	}

	g, err := s.GetGrievanceByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return g, result.RowsAffected > 0, nil
}

func departmentQueue(tx *gorm.DB, department string) *gorm.DB {
	return tx.
		Where("department = ?", department).
		Order("priority_score DESC NULLS LAST").
		Order("created_at ASC")
}

func statusUpdate(tx *gorm.DB, id string, status models.Status) *gorm.DB {
	return tx.
		Model(&models.Grievance{}).
		Where("id = ?", id).
		Update("status", status)
}

func classificationUpdate(tx *gorm.DB, id string, c models.Classification, onlyPending bool) *gorm.DB {
	tx = tx.Model(&models.Grievance{}).Where("id = ?", id)
	if onlyPending {
		tx = tx.Where("needs_reclassification = ?", true)
	}
	return tx.Updates(map[string]interface{}{
		"department":             c.Department,
		"priority":               c.Priority,
		"priority_score":         c.PriorityScore,
		"mass_complaint":         c.MassComplaint,
		"needs_reclassification": false,
	})
}

// ListUnclassifiedGrievanceIDs returns up to limit grievances still waiting
// for the classifier, oldest first.
func (s *Service) ListUnclassifiedGrievanceIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).
		Model(&models.Grievance{}).
		Where("needs_reclassification = ?", true).
		Order("created_at asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("ERROR: Failed to retrieve unclassified grievances: %v", err)
		return nil, err
	}
	return ids, nil
}

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

// GetUserByEmail returns models.ErrNotFound when no user has that email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// AddToReclassifyQueue додає скаргу до черги повторної класифікації в Redis
func (s *Service) AddToReclassifyQueue(ctx context.Context, grievanceID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.SAdd(ctx, config.ReclassifyQueueKey, grievanceID).Err()
}

// RemoveFromReclassifyQueue видаляє скаргу з черги повторної класифікації
func (s *Service) RemoveFromReclassifyQueue(ctx context.Context, grievanceID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.SRem(ctx, config.ReclassifyQueueKey, grievanceID).Err()
}

// GetReclassifyQueue returns up to limit queued grievance IDs without
// removing them; callers remove an ID once it has been classified.
func (s *Service) GetReclassifyQueue(ctx context.Context, limit int) ([]string, error) {
	if s.Redis == nil {
		return nil, nil
	}
	if limit <= 0 {
		return s.Redis.SMembers(ctx, config.ReclassifyQueueKey).Result()
	}
	ids, err := s.Redis.SRandMemberN(ctx, config.ReclassifyQueueKey, int64(limit)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return ids, err
}
