package grievance

import (
	"context"
	"fmt"
	"grievance/backend/internal/models"
	"log"
)

// Submit validates the input, asks the classifier for department and
// priority and stores the grievance as Pending.
//
// When the classifier is unavailable the grievance is still stored, without
// department and priority, flagged and queued for re-classification.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Grievance, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	g := &models.Grievance{
		Title:       in.Title,
		Description: in.Description,
		CitizenRef:  in.CitizenRef,
		Status:      models.StatusPending,
		CreatedAt:   s.now(),
	}

	res, err := s.Classifier.Classify(ctx, in.Description)
	s.Metrics.ClassifierCall(err == nil)
	if err != nil {
		log.Printf("WARNING: Classifier unavailable for grievance from citizen %s: %v", in.CitizenRef, err)
		g.NeedsReclassification = true
	} else {
		applyClassification(g, models.Classification{
			Department:    res.Department,
			Priority:      res.Priority,
			PriorityScore: res.PriorityScore,
			MassComplaint: res.MassComplaint,
		})
	}

	if err := s.Storage.CreateGrievance(ctx, g); err != nil {
		return nil, fmt.Errorf("grievance.Submit save: %w", err)
	}
	s.Metrics.Submitted(!g.NeedsReclassification)

	if g.NeedsReclassification {
		// The DB flag stays authoritative if queueing fails.
		if err := s.Storage.AddToReclassifyQueue(ctx, g.ID); err != nil {
			log.Printf("ERROR: Failed to queue grievance %s for re-classification: %v", g.ID, err)
		}
	}

	return g, nil
}

func applyClassification(g *models.Grievance, c models.Classification) {
	dept := c.Department
	prio := c.Priority
	g.Department = &dept
	g.Priority = &prio
	g.PriorityScore = c.PriorityScore
	g.MassComplaint = c.MassComplaint
	g.NeedsReclassification = false
}
