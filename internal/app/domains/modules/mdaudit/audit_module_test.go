package mdaudit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"courier/marcas/common/entity"
	"courier/marcas/common/model"
	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/idgen"
	"courier/marcas/internal/app/pkg/logger"
)

type fakePublisher struct {
	queue string
	data  interface{}
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, queue string, data interface{}) error {
	f.queue = queue
	f.data = data
	return f.err
}

func sampleResult() (*etmark.MarkCommand, *etmark.BatchResult) {
	cmd := &etmark.MarkCommand{
		ManifestID:  5157422,
		Motive:      etmark.MotiveFiscalization,
		PersonID:    77,
		Observation: "revisión",
		Meta:        etmark.Meta{InspectionType: "FISICA", Proposal: "AFORO"},
	}
	tally := etmark.Tally{
		Items: []etmark.ItemOutcome{
			{GuideID: 1, DocumentNumber: "GT1", Result: "BIEN", Success: true},
			{GuideID: 2, DocumentNumber: "GT2", Result: "MAL", ErrorCode: errorx.CodeRemoteRejected},
			{GuideID: 3, DocumentNumber: "GT3", Result: "BIEN", Success: true},
		},
		Succeeded: 2,
		Errored:   1,
	}
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return cmd, etmark.NewBatchResult("batch-1", etmark.BatchKindMark, cmd.Motive, "", tally, at)
}

func TestBuildAudit(t *testing.T) {
	cmd, result := sampleResult()

	audit := BuildAudit("req-1", cmd, result)

	assert.Equal(t, "req-1", audit.RequestID)
	assert.Equal(t, "batch-1", audit.BatchID)
	assert.Equal(t, model.AuditKindMark, audit.Kind)
	assert.Equal(t, int64(etguide.ManifestID(5157422)), audit.ManifestID)
	assert.Equal(t, "F", audit.Motive)
	assert.Equal(t, "AFORO", audit.Meta.Proposal)
	assert.Equal(t, 2, audit.Succeeded)
	assert.Equal(t, 1, audit.Errored)
	require.Len(t, audit.Items, 3)
	assert.Equal(t, "REMOTE_REJECTED", audit.Items[1].ErrorCode)
	assert.Equal(t, result.Timestamp.Unix(), audit.ProcessedAt)
}

func TestLedgerMarksOnlySucceeded(t *testing.T) {
	cmd, result := sampleResult()

	marks := LedgerMarks(BuildAudit("req-1", cmd, result))

	require.Len(t, marks, 2)
	assert.Equal(t, int64(1), marks[0].GuideID)
	assert.Equal(t, int64(3), marks[1].GuideID)
	for _, m := range marks {
		assert.Equal(t, etmark.MotiveFiscalization, m.Motive)
		assert.Equal(t, "batch-1", m.BatchID)
		assert.Equal(t, "FISICA", m.Meta.InspectionType)
		assert.True(t, m.Active)
	}
}

func TestRecordRepeatedGuideInBatch(t *testing.T) {
	m := newLedgerModule(t)
	ctx := context.Background()

	n, err := m.Record(ctx, &model.MarkBatchAudit{
		BatchID:   "batch-dup",
		Kind:      model.AuditKindMark,
		Motive:    string(etmark.MotiveFiscalization),
		Succeeded: 2,
		Items: []model.MarkAuditItem{
			{GuideID: 8, DocumentNumber: "GT8", Success: true},
			{GuideID: 8, DocumentNumber: "GT8", Success: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	history, err := m.History(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPublish(t *testing.T) {
	cmd, result := sampleResult()
	audit := BuildAudit("req-1", cmd, result)

	t.Run("ok", func(t *testing.T) {
		pub := &fakePublisher{}
		m := NewAuditModule(pub, "marcas_audit", nil, logger.NewNopLogger())

		require.NoError(t, m.Publish(context.Background(), audit))
		assert.Equal(t, "marcas_audit", pub.queue)
		assert.Same(t, audit, pub.data)
	})

	t.Run("publisher error", func(t *testing.T) {
		pub := &fakePublisher{err: errors.New("connection refused")}
		m := NewAuditModule(pub, "marcas_audit", nil, logger.NewNopLogger())

		err := m.Publish(context.Background(), audit)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-1")
	})
}

func newLedgerModule(t *testing.T) *AuditModule {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Mark{}))

	repo := rpmark.NewMarkRepository(db, idgen.NewSnowflakeIDGenerator(1))
	return NewAuditModule(nil, "", repo, logger.NewNopLogger())
}

func TestRecordIsIdempotent(t *testing.T) {
	m := newLedgerModule(t)
	ctx := context.Background()
	cmd, result := sampleResult()
	audit := BuildAudit("req-1", cmd, result)

	n, err := m.Record(ctx, audit)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Record(ctx, audit)
	require.NoError(t, err)
	assert.Zero(t, n)

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = m.History(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordChangeBatch(t *testing.T) {
	m := newLedgerModule(t)
	ctx := context.Background()
	cmd, result := sampleResult()
	_, err := m.Record(ctx, BuildAudit("req-1", cmd, result))
	require.NoError(t, err)

	change := BuildAudit("req-2", cmd, result)
	change.BatchID = "batch-2"
	change.Kind = model.AuditKindChange
	change.Motive = string(etmark.MotiveDeclaration)
	change.DiscardReason = "error de digitación"

	n, err := m.Record(ctx, change)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	history, err := m.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Active)
	assert.Equal(t, etmark.MotiveDeclaration, history[0].Motive)
	assert.False(t, history[1].Active)
	assert.Equal(t, "error de digitación", history[1].DiscardReason)
}

func TestRecordWithoutSucceededItems(t *testing.T) {
	m := newLedgerModule(t)

	n, err := m.Record(context.Background(), &model.MarkBatchAudit{
		BatchID: "batch-x",
		Kind:    model.AuditKindMark,
		Items:   []model.MarkAuditItem{{GuideID: 1, Success: false}},
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryRejectsInvalidGuideID(t *testing.T) {
	m := newLedgerModule(t)

	_, err := m.History(context.Background(), 0)
	assert.Equal(t, errorx.CodeGuideNotFound, errorx.CodeOf(err))
}
