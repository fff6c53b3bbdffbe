package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// newDryRunDB opens a database-less gorm handle that records the SQL each
// finisher builds. The lock queries' predicates are contract, so they get
// pinned here without needing Postgres.
func newDryRunDB(t *testing.T, captured *[]string) *gorm.DB {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		*captured = append(*captured, tx.Statement.SQL.String())
	})
	require.NoError(t, err)
	return db
}

func TestHasEntriesForProduct_CountsCancelledEntries(t *testing.T) {
	var queries []string
	repo := NewStockRepository(newDryRunDB(t, &queries))

	_, err := repo.HasEntriesForProduct(context.Background(), uuid.New())

	assert.NoError(t, err)
	require.Len(t, queries, 1)
	// Cancelled entries still freeze the variant mode, so the existence
	// check must not narrow by status.
	assert.Contains(t, queries[0], "product_id")
	assert.NotContains(t, queries[0], "status")
}

func TestLockedCombinationIDs_IncludesCancelledEntries(t *testing.T) {
	var queries []string
	repo := NewStockRepository(newDryRunDB(t, &queries))

	_, err := repo.LockedCombinationIDs(context.Background(), uuid.New())

	assert.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "variant_combination_id")
	assert.NotContains(t, queries[0], "status")
}

func TestAvailability_CountsOnlyImportedEntries(t *testing.T) {
	var queries []string
	repo := NewStockRepository(newDryRunDB(t, &queries))

	_, err := repo.Availability(context.Background(), uuid.New(), nil)

	assert.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "status")
	assert.Contains(t, queries[0], "remaining_quantity")
}
