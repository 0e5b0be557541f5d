package svmarcas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/domains/modules/mdguide"
	"courier/marcas/internal/app/domains/modules/mdmanifest"
	"courier/marcas/internal/app/domains/modules/mdmarking"
	"courier/marcas/internal/app/domains/repo/rpguide/rpguidetest"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

type fakePublisher struct {
	jobs []*model.MarkBatchAudit
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, queue string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, data.(*model.MarkBatchAudit))
	return nil
}

type fakeMarkRepo struct {
	rpmark.MarkRepository
	history map[int64][]*etmark.Mark
}

func (f *fakeMarkRepo) ListByGuide(ctx context.Context, guideID int64) ([]*etmark.Mark, error) {
	return f.history[guideID], nil
}

type fixture struct {
	svc   *MarcasService
	store *rpguidetest.Store
	pub   *fakePublisher
	marks *fakeMarkRepo
}

func newFixture() *fixture {
	log := logger.NewNopLogger()
	store := rpguidetest.New()
	pub := &fakePublisher{}
	marks := &fakeMarkRepo{history: make(map[int64][]*etmark.Mark)}

	marking := mdmarking.NewMarkingModule(
		store,
		mdmarking.NewValidator(nil),
		mdmarking.NewExecutor(mdmarking.ExecutorConfig{Concurrency: 2, SuccessSentinel: "BIEN"}, log),
		log,
	)
	svc := NewMarcasService(
		mdmanifest.NewManifestModule(store, log),
		mdguide.NewGuideModule(store, log),
		marking,
		mdaudit.NewAuditModule(pub, "marcas_audit", marks, log),
		log,
	)
	svc.newBatchID = func() string { return "batch-fixed" }

	return &fixture{svc: svc, store: store, pub: pub, marks: marks}
}

func guideRow(id int64, number, taxID string) etguide.RawRow {
	return etguide.RawRow{
		"DOCORIGEN":        id,
		"NUMERODOC":        number,
		"NOMBREEMISOR":     "DHL",
		"TOTALBULTOS":      int64(2),
		"TOTALPESO":        1.5,
		"VALORDECLARADO":   120.0,
		"CONSIGNANTE":      "SHIPPER",
		"CONSIGNATARIO":    "ANA SOTO",
		"RUTCONSIGNATARIO": taxID,
		"MARCAS":           nil,
	}
}

func TestQueryGuidesInvalidManifest(t *testing.T) {
	f := newFixture()

	for _, number := range []string{"12A45", "", " 123", "12-3"} {
		_, err := f.svc.QueryGuides(context.Background(), number, "")
		assert.Equal(t, errorx.CodeInvalidManifestFormat, errorx.CodeOf(err), number)
	}
	assert.Zero(t, f.store.ResolveCalls())
	assert.Zero(t, f.store.ListCalls())
}

func TestQueryGuidesInvalidFilterSkipsStore(t *testing.T) {
	f := newFixture()

	_, err := f.svc.QueryGuides(context.Background(), "123", "GT-1")
	assert.Equal(t, errorx.CodeInvalidGuideFormat, errorx.CodeOf(err))
	assert.Zero(t, f.store.ResolveCalls())
}

func TestQueryGuidesManifestNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.QueryGuides(context.Background(), "999", "")
	assert.Equal(t, errorx.CodeManifestNotFound, errorx.CodeOf(err))
	assert.Zero(t, f.store.ListCalls())
}

func TestQueryGuidesEmptyManifest(t *testing.T) {
	f := newFixture()
	f.store.Manifests["5157422"] = []etguide.ManifestID{42}

	proj, err := f.svc.QueryGuides(context.Background(), "5157422", "")
	require.NoError(t, err)
	assert.Empty(t, proj.Guides)
	assert.Zero(t, proj.RowsCount)
}

func TestQueryGuides(t *testing.T) {
	f := newFixture()
	f.store.Manifests["5157422"] = []etguide.ManifestID{42}
	f.store.Rows[42] = []etguide.RawRow{
		guideRow(1, "GT1", "22-2"),
		guideRow(2, "GT2", "11-1"),
	}

	proj, err := f.svc.QueryGuides(context.Background(), "5157422", "")
	require.NoError(t, err)
	require.Len(t, proj.Guides, 2)
	assert.Equal(t, int64(2), proj.Guides[0].ID)
	assert.Equal(t, 2, proj.RowsCount)

	proj, err = f.svc.QueryGuides(context.Background(), "5157422", "gt1")
	require.NoError(t, err)
	require.Len(t, proj.Guides, 1)
	assert.Equal(t, int64(1), proj.Guides[0].ID)
}

func TestQueryGuidesStoreFailureIsTerminal(t *testing.T) {
	f := newFixture()
	f.store.ResolveErr = errorx.DatabaseConnection(errors.New("i/o timeout"))

	_, err := f.svc.QueryGuides(context.Background(), "123", "")
	assert.Equal(t, errorx.CodeDatabaseConnection, errorx.CodeOf(err))
	assert.True(t, errorx.IsRetryable(err))
}

func TestMarkBatchPublishesAudit(t *testing.T) {
	f := newFixture()
	f.store.Sentinels[2] = "MAL: guia anulada"

	ctx := logger.WithRequestID(context.Background(), "req-123")
	cmd := &etmark.MarkCommand{
		Motive: etmark.MotiveFiscalization,
		Guides: []etguide.GuideRef{
			{ID: 1, DocumentNumber: "GT1"},
			{ID: 2, DocumentNumber: "GT2"},
		},
		PersonID: 9,
	}

	result, err := f.svc.MarkBatch(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "batch-fixed", result.BatchID)
	assert.False(t, result.Success)

	require.Len(t, f.pub.jobs, 1)
	job := f.pub.jobs[0]
	assert.Equal(t, "req-123", job.RequestID)
	assert.Equal(t, "batch-fixed", job.BatchID)
	assert.Equal(t, model.AuditKindMark, job.Kind)
	assert.Equal(t, 1, job.Succeeded)
	assert.Equal(t, 1, job.Errored)
}

func TestMarkBatchAuditFailureDoesNotFailBatch(t *testing.T) {
	f := newFixture()
	f.pub.err = errors.New("lmstfy unavailable")

	result, err := f.svc.MarkBatch(context.Background(), &etmark.MarkCommand{
		Motive: etmark.MotiveFiscalization,
		Guides: []etguide.GuideRef{{ID: 1, DocumentNumber: "GT1"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestMarkBatchSurvivesClientDisconnect(t *testing.T) {
	f := newFixture()

	ctx, cancel := context.WithCancel(logger.WithRequestID(context.Background(), "req-gone"))
	defer cancel()
	f.store.AfterCall = func(guideID int64) {
		if guideID == 1 {
			cancel()
		}
	}

	result, err := f.svc.MarkBatch(ctx, &etmark.MarkCommand{
		Motive: etmark.MotiveFiscalization,
		Guides: []etguide.GuideRef{
			{ID: 1, DocumentNumber: "GT1"},
			{ID: 2, DocumentNumber: "GT2"},
			{ID: 3, DocumentNumber: "GT3"},
		},
	})
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Succeeded)
	for _, item := range result.Items {
		assert.Equal(t, "BIEN", item.Result, item.GuideID)
	}

	require.Len(t, f.pub.jobs, 1)
	assert.Equal(t, "req-gone", f.pub.jobs[0].RequestID)
	assert.Equal(t, 3, f.pub.jobs[0].Succeeded)
}

func TestChangeBatchSurvivesClientDisconnect(t *testing.T) {
	f := newFixture()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.store.AfterCall = func(int64) { cancel() }

	result, err := f.svc.ChangeBatch(ctx, &etmark.ChangeCommand{
		MarkCommand: etmark.MarkCommand{
			Motive: etmark.MotiveDeclaration,
			Guides: []etguide.GuideRef{{ID: 1}, {ID: 2}},
		},
		DiscardReason: "reasignación",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Len(t, f.pub.jobs, 1)
}

func TestMarkBatchRejectedPublishesNothing(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MarkBatch(context.Background(), &etmark.MarkCommand{
		Motive: "Z",
		Guides: []etguide.GuideRef{{ID: 1}},
	})
	assert.Equal(t, errorx.CodeInvalidMotive, errorx.CodeOf(err))
	assert.Empty(t, f.pub.jobs)
	assert.Zero(t, f.store.MutatingCalls())
}

func TestChangeBatch(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ChangeBatch(context.Background(), &etmark.ChangeCommand{
		MarkCommand: etmark.MarkCommand{
			Motive: etmark.MotiveDeclaration,
			Guides: []etguide.GuideRef{{ID: 1, DocumentNumber: "GT1"}},
		},
		DiscardReason: "corrección",
	})
	require.NoError(t, err)
	assert.Equal(t, etmark.BatchKindChange, result.Kind)
	assert.Equal(t, []int64{1}, f.store.ChangeCalls())

	require.Len(t, f.pub.jobs, 1)
	assert.Equal(t, model.AuditKindChange, f.pub.jobs[0].Kind)
	assert.Equal(t, "corrección", f.pub.jobs[0].DiscardReason)
}

func TestChangeBatchWithoutReason(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ChangeBatch(context.Background(), &etmark.ChangeCommand{
		MarkCommand: etmark.MarkCommand{
			Motive: etmark.MotiveDeclaration,
			Guides: []etguide.GuideRef{{ID: 1}},
		},
	})
	assert.Equal(t, errorx.CodeDiscardReasonTooShort, errorx.CodeOf(err))
	assert.Zero(t, f.store.MutatingCalls())
	assert.Empty(t, f.pub.jobs)
}

func TestHistory(t *testing.T) {
	f := newFixture()
	f.marks.history[7] = []*etmark.Mark{{ID: 2, GuideID: 7, Active: true}, {ID: 1, GuideID: 7}}

	marks, err := f.svc.History(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, marks, 2)

	_, err = f.svc.History(context.Background(), -1)
	assert.Equal(t, errorx.CodeGuideNotFound, errorx.CodeOf(err))
}
