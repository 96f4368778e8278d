// Package analysis provides the read-side rules applied to grievance lists:
// the department ordering and the aggregate counts shown on dashboards.
package analysis

import (
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"sort"
)

// GetWeight returns the rank of a priority.
// It returns 0 for nil or unrecognized priorities.
func GetWeight(p *models.Priority) int {
	if p == nil {
		return 0
	}
	return config.PriorityWeights[string(*p)]
}

// IsHighPriority reports whether p is High or above.
func IsHighPriority(p *models.Priority) bool {
	return GetWeight(p) >= config.HighPriorityWeight
}

// SortForDepartment orders grievances by descending priority score.
// Grievances without a score come after all scored ones. Equal scores, and
// the unscored tail, are ordered by creation time, oldest first, then by ID.
func SortForDepartment(list []models.Grievance) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.PriorityScore != nil && b.PriorityScore == nil:
			return true
		case a.PriorityScore == nil && b.PriorityScore != nil:
			return false
		case a.PriorityScore != nil && *a.PriorityScore != *b.PriorityScore:
			return *a.PriorityScore > *b.PriorityScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Stats is the aggregate view used by the admin dashboard.
type Stats struct {
	Total          int            `json:"total"`
	Pending        int            `json:"pending"`
	InProgress     int            `json:"inProgress"`
	Resolved       int            `json:"resolved"`
	HighPriority   int            `json:"highPriority"`
	MassComplaints int            `json:"massComplaints"`
	Unclassified   int            `json:"unclassified"`
	ByDepartment   map[string]int `json:"byDepartment"`
}

// Summarize counts grievances by status, priority band and department.
// Unclassified grievances are counted separately and not per department.
func Summarize(list []models.Grievance) Stats {
	st := Stats{ByDepartment: make(map[string]int)}
	for i := range list {
		g := &list[i]
		st.Total++
		switch g.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusResolved:
			st.Resolved++
		}
		if IsHighPriority(g.Priority) {
			st.HighPriority++
		}
		if g.MassComplaint {
			st.MassComplaints++
		}
		if g.Department == nil {
			st.Unclassified++
			continue
		}
		st.ByDepartment[*g.Department]++
	}
	return st
}
