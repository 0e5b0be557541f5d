package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/infra/mq/lmstfy"
	"courier/marcas/internal/app/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu      sync.Mutex
	pending []*lmstfy.Message
	acked   []string
	err     error
}

func (f *fakeSource) Consume(ctx context.Context, queue string, timeout, ttr uint32) (*lmstfy.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pending) == 0 {
		return nil, nil
	}
	msg := f.pending[0]
	f.pending = f.pending[1:]
	return msg, nil
}

func (f *fakeSource) Ack(ctx context.Context, queue, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, jobID)
	return nil
}

func (f *fakeSource) Acked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.acked...)
}

type fakeHandler struct {
	mu      sync.Mutex
	handled []string
	err     error
}

func (f *fakeHandler) HandleBatchAudit(ctx context.Context, audit *model.MarkBatchAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.handled = append(f.handled, audit.BatchID)
	return nil
}

func message(t *testing.T, jobID string, audit *model.MarkBatchAudit) *lmstfy.Message {
	t.Helper()
	data, err := json.Marshal(audit)
	require.NoError(t, err)
	return &lmstfy.Message{JobID: jobID, Queue: "marcas_audit", Data: data}
}

func newConsumer(source JobSource, handler AuditHandler) *AuditConsumer {
	return NewAuditConsumer(source, handler, &Config{
		QueueName:    "marcas_audit",
		Timeout:      1,
		TTR:          30,
		PollInterval: time.Millisecond,
	}, logger.NewNopLogger())
}

func TestConsumeOneAcksAfterHandling(t *testing.T) {
	source := &fakeSource{pending: []*lmstfy.Message{
		message(t, "job-1", &model.MarkBatchAudit{BatchID: "b1", Kind: model.AuditKindMark}),
	}}
	handler := &fakeHandler{}
	c := newConsumer(source, handler)

	require.NoError(t, c.consumeOne(context.Background()))
	assert.Equal(t, []string{"b1"}, handler.handled)
	assert.Equal(t, []string{"job-1"}, source.Acked())
}

func TestConsumeOneAcksUnparsable(t *testing.T) {
	source := &fakeSource{pending: []*lmstfy.Message{
		{JobID: "bad-json", Data: json.RawMessage(`{not json`)},
		message(t, "no-batch", &model.MarkBatchAudit{Kind: model.AuditKindMark}),
		message(t, "bad-kind", &model.MarkBatchAudit{BatchID: "b1", Kind: "DELETE"}),
	}}
	handler := &fakeHandler{}
	c := newConsumer(source, handler)

	for i := 0; i < 3; i++ {
		assert.Error(t, c.consumeOne(context.Background()))
	}
	assert.Empty(t, handler.handled)
	assert.Equal(t, []string{"bad-json", "no-batch", "bad-kind"}, source.Acked())
}

func TestConsumeOneLeavesFailedJobForRedelivery(t *testing.T) {
	source := &fakeSource{pending: []*lmstfy.Message{
		message(t, "job-1", &model.MarkBatchAudit{BatchID: "b1", Kind: model.AuditKindChange}),
	}}
	c := newConsumer(source, &fakeHandler{err: errors.New("db down")})

	err := c.consumeOne(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b1")
	assert.Empty(t, source.Acked())
}

func TestConsumeOneEmptyQueue(t *testing.T) {
	c := newConsumer(&fakeSource{}, &fakeHandler{})
	assert.NoError(t, c.consumeOne(context.Background()))
}

func TestStartStopsOnCancel(t *testing.T) {
	source := &fakeSource{pending: []*lmstfy.Message{
		message(t, "job-1", &model.MarkBatchAudit{BatchID: "b1", Kind: model.AuditKindMark}),
	}}
	handler := &fakeHandler{}
	c := newConsumer(source, handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(source.Acked()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestStartBacksOffOnSourceError(t *testing.T) {
	c := newConsumer(&fakeSource{err: errors.New("lmstfy unreachable")}, &fakeHandler{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.Start(ctx), context.DeadlineExceeded)
}
