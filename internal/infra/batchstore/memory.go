package batchstore

import (
	"context"
	"sync"
	"time"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	"github.com/bryanwahyu/image-evaluator/internal/metrics"
)

// Memory keeps batches while the results view is open.
// Entries older than the TTL are dropped on access and by Sweep.
type Memory struct {
	mu      sync.RWMutex
	batches map[domain.BatchID]*domain.Batch
	ttl     time.Duration
	clock   application.Clock
}

func NewMemory(ttl time.Duration, clock application.Clock) *Memory {
	return &Memory{
		batches: make(map[domain.BatchID]*domain.Batch),
		ttl:     ttl,
		clock:   clock,
	}
}

func (m *Memory) Put(_ context.Context, b *domain.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
	metrics.BatchesHeld.Set(float64(len(m.batches)))
	return nil
}

// Get returns ErrBatchNotFound for unknown, expired or foreign batches.
func (m *Memory) Get(_ context.Context, owner string, id domain.BatchID) (*domain.Batch, error) {
	m.mu.RLock()
	b, ok := m.batches[id]
	m.mu.RUnlock()
	if !ok || b.OwnerID != owner {
		return nil, domain.ErrBatchNotFound
	}
	if m.expired(b) {
		m.mu.Lock()
		delete(m.batches, id)
		metrics.BatchesHeld.Set(float64(len(m.batches)))
		m.mu.Unlock()
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

func (m *Memory) Delete(_ context.Context, owner string, id domain.BatchID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok || b.OwnerID != owner {
		return domain.ErrBatchNotFound
	}
	delete(m.batches, id)
	metrics.BatchesHeld.Set(float64(len(m.batches)))
	return nil
}

// Sweep removes every expired batch and returns how many were dropped.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, b := range m.batches {
		if m.expired(b) {
			delete(m.batches, id)
			n++
		}
	}
	metrics.BatchesHeld.Set(float64(len(m.batches)))
	return n
}

// Run sweeps on every tick until ctx is done. A non-positive interval disables sweeping.
func (m *Memory) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len reports the number of held batches, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.batches)
}

func (m *Memory) expired(b *domain.Batch) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.clock.Now().Sub(b.CreatedAt) > m.ttl
}
