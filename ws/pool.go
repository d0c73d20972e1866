package ws

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Pool runs card lookups and journal writes off the room loop.
type Pool struct {
	mu   sync.RWMutex
	pool *ants.Pool
	size int
	log  *zap.Logger
}

func NewPool(size int, log *zap.Logger) *Pool {
	return &Pool{size: size, log: log}
}

func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		p.log.Warn("pool already started")
		return nil
	}

	pool, err := ants.NewPool(p.size,
		ants.WithExpiryDuration(60*time.Second),
		// the room loop posts jobs and must never block on a full pool
		ants.WithNonblocking(true),
	)
	if err != nil {
		return fmt.Errorf("pool init failed: %w", err)
	}
	p.pool = pool
	p.log.Info("pool started", zap.Int("size", p.size))
	return nil
}

func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		running := p.pool.Running()
		p.pool.Release()
		p.pool = nil
		p.log.Info("pool stopped", zap.Int("running", running))
	}
}

// Running returns the number of busy workers.
func (p *Pool) Running() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.pool == nil {
		return 0
	}
	return p.pool.Running()
}

// Post runs job on a pooled worker, or on a fresh goroutine when the pool
// is not running or rejects the job.
func (p *Pool) Post(job func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.pool == nil || p.pool.IsClosed() {
		go p.safeRun(job)
		return
	}
	if err := p.pool.Submit(func() { p.safeRun(job) }); err != nil {
		p.log.Warn("pool submit failed, falling back to goroutine", zap.Error(err))
		go p.safeRun(job)
	}
}

func (p *Pool) safeRun(job func()) {
	defer func() {
		if e := recover(); e != nil {
			p.log.Error("recovered from panic", zap.Any("panic", e), zap.ByteString("stack", debug.Stack()))
		}
	}()
	job()
}
