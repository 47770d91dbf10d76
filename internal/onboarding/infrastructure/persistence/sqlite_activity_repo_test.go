package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

func TestSQLiteActivityRepository_AppendAndList(t *testing.T) {
	repo := NewSQLiteActivityRepository(setupTestDB(t))
	ctx := context.Background()
	candidateID := uuid.New()

	first := domain.NewActivityEntry(candidateID, 1, domain.ActivityStepCompleted, "hr-1", "offer sent")
	first.OccurredAt = time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, first))

	second := domain.NewActivityEntry(candidateID, 2, domain.ActivityStepScheduled, "scheduler", "hr induction scheduled")
	second.OccurredAt = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, second))

	other := domain.NewActivityEntry(uuid.New(), 1, domain.ActivityStepCompleted, "hr-1", "")
	require.NoError(t, repo.Append(ctx, other))

	entries, err := repo.ListByCandidate(ctx, candidateID, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, domain.ActivityStepScheduled, entries[0].Action)
	assert.Equal(t, "scheduler", entries[0].ActorID)
	assert.True(t, entries[0].OccurredAt.Equal(second.OccurredAt))
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestSQLiteActivityRepository_ListRespectsLimit(t *testing.T) {
	repo := NewSQLiteActivityRepository(setupTestDB(t))
	ctx := context.Background()
	candidateID := uuid.New()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := domain.NewActivityEntry(candidateID, i+1, domain.ActivityStepCompleted, "hr-1", "")
		entry.OccurredAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Append(ctx, entry))
	}

	entries, err := repo.ListByCandidate(ctx, candidateID, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 5, entries[0].StepNumber)
}
