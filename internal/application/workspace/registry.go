package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"project-planner-ai/internal/config"
	"project-planner-ai/pkg/logger"
	"project-planner-ai/pkg/metrics"
)

type registryEntry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Registry 会话 ID → 工作区，仅保存在进程内存中，空闲超过 TTL 的会话被回收
type Registry struct {
	mu      sync.Mutex
	gen     Generator
	opts    Options
	ttl     time.Duration
	sweep   time.Duration
	now     func() time.Time
	entries map[string]*registryEntry
}

// NewRegistry 创建会话注册表
func NewRegistry(gen Generator, cfg *config.Config) *Registry {
	return &Registry{
		gen: gen,
		opts: Options{
			MaxFiles:       cfg.Workspace.MaxFiles,
			MaxUploadBytes: cfg.Workspace.MaxUploadBytes,
		},
		ttl:     cfg.Workspace.SessionTTL,
		sweep:   cfg.Workspace.SweepInterval,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// NewSessionID 生成新的会话 ID
func NewSessionID() string {
	return uuid.NewString()
}

// Get 返回会话对应的工作区，不存在时创建
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[sessionID]; ok {
		e.lastSeen = r.now()
		return e.ws
	}
	ws := New(r.gen, r.opts)
	r.entries[sessionID] = &registryEntry{ws: ws, lastSeen: r.now()}
	metrics.ActiveWorkspaces.Set(float64(len(r.entries)))
	return ws
}

// Len 当前会话数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict 回收空闲超过 TTL 的会话，返回回收数量
func (r *Registry) Evict() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	metrics.ActiveWorkspaces.Set(float64(len(r.entries)))
	return n
}

// Run 周期性回收空闲会话，直到 ctx 结束
func (r *Registry) Run(ctx context.Context) error {
	if r.sweep <= 0 || r.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				logger.Info(ctx, "evicted idle workspaces", "count", n)
			}
		}
	}
}
