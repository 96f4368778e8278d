package grievance

import (
	"context"
	"fmt"
	"grievance/backend/internal/models"
	"log"
	"strings"
)

// Reclassify runs the classifier again for a grievance stored without a
// classification. Already classified grievances are returned unchanged.
func (s *Service) Reclassify(ctx context.Context, id string) (*models.Grievance, error) {
	g, err := s.Storage.GetGrievanceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.Classified() && !g.NeedsReclassification {
		s.dequeue(ctx, id)
		return g, nil
	}

	res, err := s.Classifier.Classify(ctx, g.Description)
	s.Metrics.ClassifierCall(err == nil)
	if err != nil {
		s.Metrics.Reclassified(false)
		return nil, fmt.Errorf("grievance.Reclassify %s: %w", id, err)
	}

	// Only written while still flagged; an override during the call wins.
	updated, applied, err := s.Storage.UpdateGrievanceClassificationIfPending(ctx, id, models.Classification{
		Department:    res.Department,
		Priority:      res.Priority,
		PriorityScore: res.PriorityScore,
		MassComplaint: res.MassComplaint,
	})
	if err != nil {
		s.Metrics.Reclassified(false)
		return nil, fmt.Errorf("grievance.Reclassify %s save: %w", id, err)
	}

	s.dequeue(ctx, id)
	if !applied {
		log.Printf("INFO: Grievance %s was classified elsewhere, classifier result discarded", id)
		return updated, nil
	}

	s.Metrics.Reclassified(true)
	log.Printf("INFO: Grievance %s classified as %s/%s", id, res.Department, res.Priority)
	return updated, nil
}

// OverrideClassification is the administrative correction of department and
// priority. The mass-complaint flag and, unless given, the score are kept.
func (s *Service) OverrideClassification(ctx context.Context, id string, in ClassificationInput) (*models.Grievance, error) {
	in.Department = strings.TrimSpace(in.Department)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	g, err := s.Storage.GetGrievanceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	score := in.PriorityScore
	if score == nil {
		score = g.PriorityScore
	}
	updated, err := s.Storage.UpdateGrievanceClassification(ctx, id, models.Classification{
		Department:    in.Department,
		Priority:      in.Priority,
		PriorityScore: score,
		MassComplaint: g.MassComplaint,
	})
	if err != nil {
		return nil, err
	}
	s.dequeue(ctx, id)
	return updated, nil
}

func (s *Service) dequeue(ctx context.Context, id string) {
	if err := s.Storage.RemoveFromReclassifyQueue(ctx, id); err != nil {
		log.Printf("ERROR: Failed to remove grievance %s from re-classification queue: %v", id, err)
	}
}

