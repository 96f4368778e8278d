package config

import "time"

const (
	// Redis keys
	ReclassifyQueueKey = "reclassify_queue"
	RevokedTokenPrefix = "revoked:"

	// Classifier
	DefaultClassifierTimeout = 5 * time.Second
	MaxDescriptionLength     = 5000
	MaxTitleLength           = 200

	// Reclassification
	DefaultReclassifyBatch = 50
)

// PriorityWeights ranks priorities; grievances at or above
// HighPriorityWeight count as high priority on the admin dashboard.
var PriorityWeights = map[string]int{
	"Low":      1,
	"Medium":   2,
	"High":     3,
	"Critical": 4,
}

const HighPriorityWeight = 3
