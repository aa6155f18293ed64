package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

func TestStorage_UpdateJobStage(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	createTestOrder(t, s, TestOrderFixture{
		OrderNum: "TW-4001",
		Customer: "Coastal Tapes",
		Year:     2026, Month: 5,
	})

	err := s.UpdateJobStage(context.Background(), "TW-4001", pipeline.StagePendingMaterial)
	require.NoError(t, err)

	job, err := s.GetJob(context.Background(), "TW-4001")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePendingMaterial, job.Stage)
}

func TestStorage_SetMaterialsReady(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	createTestOrder(t, s, TestOrderFixture{
		OrderNum: "TW-4002",
		Customer: "Coastal Tapes",
		Year:     2026, Month: 5,
	})

	err := s.SetMaterialsReady(context.Background(), "TW-4002", true)
	require.NoError(t, err)

	job, err := s.GetJob(context.Background(), "TW-4002")
	require.NoError(t, err)
	assert.True(t, job.MaterialsReady)
}

func TestStorage_GetJobsStageFilter(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	for i, num := range []string{"TW-5001", "TW-5002", "TW-5003"} {
		createTestOrder(t, s, TestOrderFixture{
			OrderNum: num,
			Customer: "Filter Test",
			Year:     2026, Month: 6 + i,
		})
	}
	require.NoError(t, s.UpdateJobStage(context.Background(), "TW-5002", pipeline.StageWinding))
	require.NoError(t, s.UpdateJobStage(context.Background(), "TW-5003", pipeline.StageWinding))

	all, err := s.GetJobs(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	winding, err := s.GetJobs(context.Background(), []pipeline.Stage{pipeline.StageWinding})
	require.NoError(t, err)
	require.Len(t, winding, 2)
	for _, job := range winding {
		assert.Equal(t, pipeline.StageWinding, job.Stage)
	}
}

func TestStorage_GetJobNotFound(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	_, err := s.GetJob(context.Background(), "TW-MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
