package mdmarking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/repo/rpguide"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

// ItemFunc 单条运单的远程变更调用
type ItemFunc func(ctx context.Context, ref etguide.GuideRef) (*rpguide.RemoteResult, error)

// ExecutorConfig 执行器配置
type ExecutorConfig struct {
	Concurrency     int           // <=1 顺序执行
	CallTimeout     time.Duration // <=0 不设超时
	SuccessSentinel string

	// TracerProvider 为空时使用全局 provider
	TracerProvider trace.TracerProvider
}

// Executor 批量执行器：逐条调用、隔离单条失败、按输入顺序汇总
type Executor struct {
	cfg    ExecutorConfig
	logger logger.Logger
	tracer trace.Tracer
}

// NewExecutor 创建执行器
func NewExecutor(cfg ExecutorConfig, logger logger.Logger) *Executor {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Executor{
		cfg:    cfg,
		logger: logger,
		tracer: tp.Tracer("courier/marcas/mdmarking"),
	}
}

// Run 执行整批，单条失败只体现在结果中，不返回错误
// 结果按下标写入，输出顺序与输入一致；计数器原子更新
func (e *Executor) Run(ctx context.Context, refs []etguide.GuideRef, op ItemFunc) etmark.Tally {
	ctx, span := e.tracer.Start(ctx, "marking.batch", trace.WithAttributes(
		attribute.Int("batch.size", len(refs)),
		attribute.Int("batch.concurrency", e.cfg.Concurrency),
	))
	defer span.End()

	items := make([]etmark.ItemOutcome, len(refs))
	succeeded := atomic.NewInt64(0)
	errored := atomic.NewInt64(0)

	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			outcome := e.runOne(ctx, ref, op)
			items[i] = outcome
			if outcome.Success {
				succeeded.Inc()
			} else {
				errored.Inc()
			}
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int64("batch.succeeded", succeeded.Load()),
		attribute.Int64("batch.errored", errored.Load()),
	)

	return etmark.Tally{
		Items:     items,
		Succeeded: int(succeeded.Load()),
		Errored:   int(errored.Load()),
	}
}

// runOne 单条处理，任何失败都折叠为 ItemOutcome
func (e *Executor) runOne(ctx context.Context, ref etguide.GuideRef, op ItemFunc) (outcome etmark.ItemOutcome) {
	outcome = etmark.ItemOutcome{
		GuideID:        ref.ID,
		DocumentNumber: ref.DocumentNumber,
	}

	if ref.ID <= 0 {
		notFound := errorx.GuideNotFound(ref.ID)
		outcome.Result = notFound.Message
		outcome.ErrorCode = notFound.Code
		return outcome
	}

	ctx, span := e.tracer.Start(ctx, "marking.item", trace.WithAttributes(
		attribute.Int64("guide.id", ref.ID),
		attribute.String("guide.number", ref.DocumentNumber),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.Result = fmt.Sprintf("panic: %v", r)
			outcome.ErrorCode = errorx.CodeInternal
			span.SetStatus(codes.Error, outcome.Result)
			e.logger.Errorf(ctx, "[Executor] guide %d panicked: %v", ref.ID, r)
		}
	}()

	callCtx := ctx
	if e.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		defer cancel()
	}

	result, err := op(callCtx, ref)
	switch {
	case err != nil:
		outcome.Result = err.Error()
		outcome.ErrorCode = remoteErrorCode(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(outcome.ErrorCode))
		e.logger.Warnf(ctx, "[Executor] guide %d (%s) call failed: code=%s retryable=%t err=%v",
			ref.ID, ref.DocumentNumber, outcome.ErrorCode, errorx.IsRetryable(err), err)

	case result.IsSuccess(e.cfg.SuccessSentinel):
		outcome.Success = true
		outcome.Result = strings.TrimSpace(result.Sentinel)

	default:
		if result != nil {
			outcome.Result = result.Sentinel
		}
		outcome.ErrorCode = errorx.CodeRemoteRejected
		span.SetStatus(codes.Error, outcome.Result)
		e.logger.Infof(ctx, "[Executor] guide %d (%s) rejected: %s", ref.ID, ref.DocumentNumber, outcome.Result)
	}

	return outcome
}

func remoteErrorCode(err error) errorx.Code {
	if bizErr, ok := errorx.As(err); ok {
		return bizErr.Code
	}
	return errorx.CodeRemoteCallFailed
}
