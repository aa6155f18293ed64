package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type MockJobStorage struct {
	mock.Mock
}

func (m *MockJobStorage) GetJobs(ctx context.Context, stages []pipeline.Stage) ([]*storage.Job, error) {
	args := m.Called(ctx, stages)

	var jobs []*storage.Job
	if args.Get(0) != nil {
		jobs = args.Get(0).([]*storage.Job)
	}
	return jobs, args.Error(1)
}

func (m *MockJobStorage) GetJob(ctx context.Context, orderNum string) (*storage.Job, error) {
	args := m.Called(ctx, orderNum)

	var job *storage.Job
	if args.Get(0) != nil {
		job = args.Get(0).(*storage.Job)
	}
	return job, args.Error(1)
}

func (m *MockJobStorage) UpdateJobStage(ctx context.Context, orderNum string, stage pipeline.Stage) error {
	args := m.Called(ctx, orderNum, stage)
	return args.Error(0)
}

func (m *MockJobStorage) SetMaterialsReady(ctx context.Context, orderNum string, ready bool) error {
	args := m.Called(ctx, orderNum, ready)
	return args.Error(0)
}

func testJob(orderNum string, stage pipeline.Stage) *storage.Job {
	return &storage.Job{
		ID:       1,
		OrderID:  1,
		OrderNum: orderNum,
		Customer: "Brightside Films",
		Stage:    stage,
		DueDate:  time.Now().AddDate(0, 0, 7),
	}
}

func TestSnapshotGroupsJobsByStage(t *testing.T) {
	st := new(MockJobStorage)

	overdueJob := testJob("TW-1", pipeline.StageWinding)
	overdueJob.DueDate = time.Now().AddDate(0, 0, -2)
	clearedLate := testJob("TW-2", pipeline.StageCleared)
	clearedLate.DueDate = time.Now().AddDate(0, 0, -30)
	onTime := testJob("TW-3", pipeline.StageWinding)

	st.On("GetJobs", mock.Anything, []pipeline.Stage(nil)).
		Return([]*storage.Job{overdueJob, clearedLate, onTime}, nil)

	svc := New(st)
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// One column per stage, in pipeline order, empty ones included.
	require.Len(t, snap.Columns, 8)
	assert.Equal(t, pipeline.StageOrderEntered, snap.Columns[0].Stage)
	assert.Equal(t, pipeline.StageCleared, snap.Columns[7].Stage)
	assert.Empty(t, snap.Columns[0].Jobs)

	var windingCol, clearedCol storage.BoardColumn
	for _, col := range snap.Columns {
		switch col.Stage {
		case pipeline.StageWinding:
			windingCol = col
		case pipeline.StageCleared:
			clearedCol = col
		}
	}

	require.Len(t, windingCol.Jobs, 2)
	assert.Equal(t, "Winding", windingCol.Label)
	assert.True(t, overdueJob.Overdue)
	assert.False(t, onTime.Overdue)

	// A cleared job is never overdue, however late it finished.
	require.Len(t, clearedCol.Jobs, 1)
	assert.False(t, clearedLate.Overdue)

	assert.WithinDuration(t, time.Now(), snap.GeneratedAt, time.Minute)
	st.AssertExpectations(t)
}

func TestMoveForward(t *testing.T) {
	st := new(MockJobStorage)

	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StageWinding), nil).Once()
	st.On("UpdateJobStage", mock.Anything, "TW-1", pipeline.StageFinishing).Return(nil).Once()
	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StageFinishing), nil).Once()

	svc := New(st)
	job, err := svc.Move(context.Background(), "TW-1", pipeline.Forward)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageFinishing, job.Stage)

	st.AssertExpectations(t)
}

func TestMoveBackward(t *testing.T) {
	st := new(MockJobStorage)

	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StageWinding), nil).Once()
	st.On("UpdateJobStage", mock.Anything, "TW-1", pipeline.StagePaperSlitting).Return(nil).Once()
	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StagePaperSlitting), nil).Once()

	svc := New(st)
	job, err := svc.Move(context.Background(), "TW-1", pipeline.Backward)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePaperSlitting, job.Stage)

	st.AssertExpectations(t)
}

func TestMoveRejectsBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		stage     pipeline.Stage
		direction pipeline.Direction
	}{
		{"backward from first stage", pipeline.StageOrderEntered, pipeline.Backward},
		{"forward from final stage", pipeline.StageCleared, pipeline.Forward},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := new(MockJobStorage)
			st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", tc.stage), nil)

			svc := New(st)
			_, err := svc.Move(context.Background(), "TW-1", tc.direction)

			var rejection *RejectionError
			require.ErrorAs(t, err, &rejection)
			assert.NotEmpty(t, rejection.Reason)

			st.AssertNotCalled(t, "UpdateJobStage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMoveMaterialsGate(t *testing.T) {
	st := new(MockJobStorage)

	waiting := testJob("TW-1", pipeline.StagePendingMaterial)
	st.On("GetJob", mock.Anything, "TW-1").Return(waiting, nil)

	svc := New(st)
	_, err := svc.Move(context.Background(), "TW-1", pipeline.Forward)

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "materials are not ready for this job", rejection.Reason)
	st.AssertNotCalled(t, "UpdateJobStage", mock.Anything, mock.Anything, mock.Anything)

	// Same move passes once the flag is set.
	st2 := new(MockJobStorage)
	ready := testJob("TW-1", pipeline.StagePendingMaterial)
	ready.MaterialsReady = true
	st2.On("GetJob", mock.Anything, "TW-1").Return(ready, nil).Once()
	st2.On("UpdateJobStage", mock.Anything, "TW-1", pipeline.StagePaperSlitting).Return(nil).Once()
	st2.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StagePaperSlitting), nil).Once()

	job, err := New(st2).Move(context.Background(), "TW-1", pipeline.Forward)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StagePaperSlitting, job.Stage)
	st2.AssertExpectations(t)
}

func TestMoveBackwardIgnoresMaterialsGate(t *testing.T) {
	st := new(MockJobStorage)

	waiting := testJob("TW-1", pipeline.StagePendingMaterial)
	st.On("GetJob", mock.Anything, "TW-1").Return(waiting, nil).Once()
	st.On("UpdateJobStage", mock.Anything, "TW-1", pipeline.StageOrderEntered).Return(nil).Once()
	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StageOrderEntered), nil).Once()

	svc := New(st)
	job, err := svc.Move(context.Background(), "TW-1", pipeline.Backward)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageOrderEntered, job.Stage)

	st.AssertExpectations(t)
}

func TestMoveUnknownJob(t *testing.T) {
	st := new(MockJobStorage)
	st.On("GetJob", mock.Anything, "TW-NONE").Return(nil, storage.ErrNotFound)

	svc := New(st)
	_, err := svc.Move(context.Background(), "TW-NONE", pipeline.Forward)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	var rejection *RejectionError
	assert.False(t, errors.As(err, &rejection), "a missing job is not a rule rejection")
}

func TestJumpSkipsAdjacencyAndMaterials(t *testing.T) {
	st := new(MockJobStorage)

	waiting := testJob("TW-1", pipeline.StagePendingMaterial)
	st.On("GetJob", mock.Anything, "TW-1").Return(waiting, nil).Once()
	st.On("UpdateJobStage", mock.Anything, "TW-1", pipeline.StageInvoicing).Return(nil).Once()
	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StageInvoicing), nil).Once()

	svc := New(st)
	job, err := svc.Jump(context.Background(), "TW-1", pipeline.StageInvoicing)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageInvoicing, job.Stage)

	st.AssertExpectations(t)
}

func TestJumpRejectsUnknownStage(t *testing.T) {
	st := new(MockJobStorage)

	svc := New(st)
	_, err := svc.Jump(context.Background(), "TW-1", pipeline.Stage("shipping"))

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	st.AssertNotCalled(t, "UpdateJobStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetMaterials(t *testing.T) {
	st := new(MockJobStorage)

	st.On("GetJob", mock.Anything, "TW-1").Return(testJob("TW-1", pipeline.StagePendingMaterial), nil).Once()
	st.On("SetMaterialsReady", mock.Anything, "TW-1", true).Return(nil).Once()
	ready := testJob("TW-1", pipeline.StagePendingMaterial)
	ready.MaterialsReady = true
	st.On("GetJob", mock.Anything, "TW-1").Return(ready, nil).Once()

	svc := New(st)
	job, err := svc.SetMaterials(context.Background(), "TW-1", true)
	require.NoError(t, err)
	assert.True(t, job.MaterialsReady)

	st.AssertExpectations(t)
}
