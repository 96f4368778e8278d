package storage

import (
	"grievance/backend/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB renders statements with the Postgres dialect without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=grievance dbname=grievance sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestDepartmentQueueSQL(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return departmentQueue(tx, "Water").Find(&[]models.Grievance{})
	})

	assert.Contains(t, sql, `FROM "grievances"`)
	assert.Contains(t, sql, "department = 'Water'")
	scoreAt := strings.Index(sql, "priority_score DESC NULLS LAST")
	createdAt := strings.Index(sql, "created_at ASC")
	require.NotEqual(t, -1, scoreAt, sql)
	require.NotEqual(t, -1, createdAt, sql)
	assert.Less(t, scoreAt, createdAt, "score must be the primary sort key")
}

func TestStatusUpdateSQL_OnlyStatusColumn(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return statusUpdate(tx, "6f1c1a3e-8f7e-4a53-9d55-2f0f4c1f7a10", models.StatusResolved)
	})

	require.True(t, strings.HasPrefix(sql, `UPDATE "grievances" SET `), sql)
	set := strings.SplitN(sql, "WHERE", 2)[0]
	assert.Contains(t, set, `"status"=`)
	assert.Contains(t, set, "Resolved")
	for _, col := range []string{"title", "description", "department", "priority", "citizen_ref", "created_at"} {
		assert.NotContains(t, set, col)
	}
	assert.Contains(t, sql, "id = '6f1c1a3e-8f7e-4a53-9d55-2f0f4c1f7a10'")
}

func TestClassificationUpdateSQL(t *testing.T) {
	db := dryRunDB(t)
	c := models.Classification{Department: "Water", Priority: models.PriorityLow}

	tests := []struct {
		name        string
		onlyPending bool
		guarded     bool
	}{
		{"administrative override", false, false},
		{"classifier result", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return classificationUpdate(tx, "6f1c1a3e-8f7e-4a53-9d55-2f0f4c1f7a10", c, tt.onlyPending)
			})

			parts := strings.SplitN(sql, "WHERE", 2)
			require.Len(t, parts, 2, sql)
			assert.Contains(t, parts[0], `"needs_reclassification"=false`)
			assert.Contains(t, parts[0], `"department"='Water'`)
			if tt.guarded {
				assert.Contains(t, parts[1], "needs_reclassification = true")
			} else {
				assert.NotContains(t, parts[1], "needs_reclassification")
			}
		})
	}
}
