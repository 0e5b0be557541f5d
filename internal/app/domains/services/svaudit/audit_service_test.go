package svaudit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/pkg/logger"
)

type fakeRepo struct {
	rpmark.MarkRepository
	batches map[string][]*etmark.Mark
	replace map[string]bool
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{batches: make(map[string][]*etmark.Mark), replace: make(map[string]bool)}
}

func (f *fakeRepo) RecordBatch(ctx context.Context, batchID string, marks []*etmark.Mark, discardReason string, replace bool) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.batches[batchID]; ok {
		return rpmark.ErrBatchRecorded
	}
	f.batches[batchID] = marks
	f.replace[batchID] = replace
	return nil
}

type fakeNotifier struct {
	channel string
	message string
	err     error
}

func (f *fakeNotifier) BatchChannel(batchID string) string { return "marcas:batch:" + batchID }

func (f *fakeNotifier) Publish(ctx context.Context, channel string, message string) error {
	f.channel = channel
	f.message = message
	return f.err
}

func sampleAudit(kind string) *model.MarkBatchAudit {
	return &model.MarkBatchAudit{
		RequestID: "req-1",
		BatchID:   "batch-1",
		Kind:      kind,
		Motive:    "F",
		Succeeded: 1,
		Errored:   1,
		Items: []model.MarkAuditItem{
			{GuideID: 1, DocumentNumber: "GT1", Success: true, Result: "BIEN"},
			{GuideID: 2, DocumentNumber: "GT2", Result: "MAL", ErrorCode: "REMOTE_REJECTED"},
		},
	}
}

func newService(repo *fakeRepo, notifier Notifier) *AuditService {
	log := logger.NewNopLogger()
	return NewAuditService(mdaudit.NewAuditModule(nil, "", repo, log), notifier, log)
}

func TestHandleBatchAudit(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier)

	require.NoError(t, svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindMark)))

	require.Len(t, repo.batches["batch-1"], 1)
	assert.Equal(t, int64(1), repo.batches["batch-1"][0].GuideID)
	assert.False(t, repo.replace["batch-1"])

	assert.Equal(t, "marcas:batch:batch-1", notifier.channel)
	var n model.MarkBatchNotification
	require.NoError(t, json.Unmarshal([]byte(notifier.message), &n))
	assert.Equal(t, 1, n.Recorded)
	assert.Equal(t, 1, n.Errored)
}

func TestHandleChangeAuditReplaces(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeNotifier{})

	require.NoError(t, svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindChange)))
	assert.True(t, repo.replace["batch-1"])
}

func TestHandleBatchAuditRedelivery(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier)

	require.NoError(t, svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindMark)))
	require.NoError(t, svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindMark)))

	var n model.MarkBatchNotification
	require.NoError(t, json.Unmarshal([]byte(notifier.message), &n))
	assert.Zero(t, n.Recorded)
}

func TestHandleBatchAuditLedgerFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("deadlock found")
	notifier := &fakeNotifier{}
	svc := newService(repo, notifier)

	err := svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindMark))
	require.Error(t, err)
	assert.Empty(t, notifier.channel)
}

func TestHandleBatchAuditNotifyFailureIsSwallowed(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeNotifier{err: errors.New("redis down")})

	assert.NoError(t, svc.HandleBatchAudit(context.Background(), sampleAudit(model.AuditKindMark)))
}
