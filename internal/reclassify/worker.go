// Package reclassify retries classification for grievances that were stored
// while the classifier was unavailable.
package reclassify

import (
	"context"
	"errors"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"log"
	"time"
)

// Queue is the subset of storage the worker reads pending work from.
type Queue interface {
	GetReclassifyQueue(ctx context.Context, limit int) ([]string, error)
	RemoveFromReclassifyQueue(ctx context.Context, grievanceID string) error
	ListUnclassifiedGrievanceIDs(ctx context.Context, limit int) ([]string, error)
}

// Reclassifier classifies one stored grievance.
type Reclassifier interface {
	Reclassify(ctx context.Context, id string) (*models.Grievance, error)
}

// Worker periodically drains the re-classification queue.
type Worker struct {
	Queue     Queue
	Service   Reclassifier
	Interval  time.Duration
	BatchSize int
}

// NewWorker creates a worker. Non-positive values fall back to defaults.
func NewWorker(q Queue, svc Reclassifier, interval time.Duration, batchSize int) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = config.DefaultReclassifyBatch
	}
	return &Worker{
		Queue:     q,
		Service:   svc,
		Interval:  interval,
		BatchSize: batchSize,
	}
}

// Run processes one batch immediately and then one per interval until ctx
// is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("Reclassify worker started (interval %s, batch %d).", w.Interval, w.BatchSize)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if n, err := w.RunOnce(ctx); err != nil {
			log.Printf("WARNING: Reclassify batch stopped after %d grievances: %v", n, err)
		} else if n > 0 {
			log.Printf("INFO: Reclassified %d grievances", n)
		}

		select {
		case <-ctx.Done():
			log.Println("Reclassify worker stopped.")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce classifies up to BatchSize pending grievances and returns how many
// succeeded. The batch stops early while the classifier is unavailable.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	ids, err := w.pending(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		_, err := w.Service.Reclassify(ctx, id)
		switch {
		case err == nil:
			done++
		case errors.Is(err, classifier.ErrUnavailable):
			return done, err
		case errors.Is(err, models.ErrNotFound):
			// Stale queue entry.
			if err := w.Queue.RemoveFromReclassifyQueue(ctx, id); err != nil {
				log.Printf("ERROR: Failed to drop stale queue entry %s: %v", id, err)
			}
		default:
			log.Printf("ERROR: Reclassify %s: %v", id, err)
		}
	}
	return done, nil
}

// pending prefers the Redis queue and falls back to the database flag, which
// stays authoritative if queue entries were lost.
func (w *Worker) pending(ctx context.Context) ([]string, error) {
	ids, err := w.Queue.GetReclassifyQueue(ctx, w.BatchSize)
	if err != nil {
		log.Printf("WARNING: Reclassify queue unavailable, reading database: %v", err)
	}
	if len(ids) > 0 {
		return ids, nil
	}
	return w.Queue.ListUnclassifiedGrievanceIDs(ctx, w.BatchSize)
}
