// Package rpguidetest 提供可计数的 GuideStore 桩实现，供各层测试复用
package rpguidetest

import (
	"context"
	"sync"
	"time"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/repo/rpguide"
)

// Store 内存版 GuideStore，按运单ID配置返回值
type Store struct {
	Manifests map[string][]etguide.ManifestID
	Rows      map[etguide.ManifestID][]etguide.RawRow
	Sentinels map[int64]string        // 未配置时返回 BIEN
	Errors    map[int64]error         // 单条调用错误
	Delays    map[int64]time.Duration // 单条调用延迟（并发测试用）

	ResolveErr error
	ListErr    error

	// AfterCall 单条打标 / 改标返回后回调
	AfterCall func(guideID int64)

	mu             sync.Mutex
	resolveCalls   int
	listCalls      int
	markCalls      []int64
	changeCalls    []int64
	discardReasons []string
}

var _ rpguide.GuideStore = (*Store)(nil)

// New 创建空桩
func New() *Store {
	return &Store{
		Manifests: make(map[string][]etguide.ManifestID),
		Rows:      make(map[etguide.ManifestID][]etguide.RawRow),
		Sentinels: make(map[int64]string),
		Errors:    make(map[int64]error),
		Delays:    make(map[int64]time.Duration),
	}
}

func (s *Store) ResolveManifestIDs(ctx context.Context, number string) ([]etguide.ManifestID, error) {
	s.mu.Lock()
	s.resolveCalls++
	s.mu.Unlock()

	if s.ResolveErr != nil {
		return nil, s.ResolveErr
	}
	return s.Manifests[number], nil
}

func (s *Store) ListGuides(ctx context.Context, manifestID etguide.ManifestID) ([]etguide.RawRow, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Rows[manifestID], nil
}

func (s *Store) MarkGuide(ctx context.Context, req *rpguide.MarkRequest) (*rpguide.RemoteResult, error) {
	s.mu.Lock()
	s.markCalls = append(s.markCalls, req.Ref.ID)
	s.mu.Unlock()

	defer s.afterCall(req.Ref.ID)
	return s.respond(ctx, req.Ref.ID)
}

func (s *Store) ChangeGuideMark(ctx context.Context, req *rpguide.MarkRequest, discardReason string) (*rpguide.RemoteResult, error) {
	s.mu.Lock()
	s.changeCalls = append(s.changeCalls, req.Ref.ID)
	s.discardReasons = append(s.discardReasons, discardReason)
	s.mu.Unlock()

	defer s.afterCall(req.Ref.ID)
	return s.respond(ctx, req.Ref.ID)
}

func (s *Store) afterCall(guideID int64) {
	if s.AfterCall != nil {
		s.AfterCall(guideID)
	}
}

func (s *Store) respond(ctx context.Context, guideID int64) (*rpguide.RemoteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d, ok := s.Delays[guideID]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.Errors[guideID]; ok {
		return nil, err
	}
	if sentinel, ok := s.Sentinels[guideID]; ok {
		return &rpguide.RemoteResult{Sentinel: sentinel}, nil
	}
	return &rpguide.RemoteResult{Sentinel: "BIEN"}, nil
}

// ResolveCalls 解析调用次数
func (s *Store) ResolveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCalls
}

// ListCalls 列表调用次数
func (s *Store) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// MarkCalls 打标调用的运单ID（按调用顺序）
func (s *Store) MarkCalls() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.markCalls...)
}

// ChangeCalls 改标调用的运单ID（按调用顺序）
func (s *Store) ChangeCalls() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.changeCalls...)
}

// DiscardReasons 改标调用收到的作废原因
func (s *Store) DiscardReasons() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.discardReasons...)
}

// MutatingCalls 打标 + 改标调用总数
func (s *Store) MutatingCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markCalls) + len(s.changeCalls)
}
