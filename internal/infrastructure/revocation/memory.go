// Package revocation holds RevocationLedger implementations.
package revocation

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/oksasatya/recruitment-accounts/internal/domain/repository"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// expiryHeap is a min-heap on expiresAt.
type expiryHeap []entry

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)        { *h = append(*h, x.(entry)) }
func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Memory is a process-local ledger. Entries are evicted once the token's own
// expiry has passed, so its size is bounded by the tokens revoked within one
// token lifetime.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	byExp   expiryHeap
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[token]; ok {
		return nil
	}
	m.revoked[token] = expiresAt
	heap.Push(&m.byExp, entry{token: token, expiresAt: expiresAt})
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}

// Sweep drops every entry whose expiry is at or before now and returns how many went.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for m.byExp.Len() > 0 && !m.byExp[0].expiresAt.After(now) {
		e := heap.Pop(&m.byExp).(entry)
		delete(m.revoked, e.token)
		n++
	}
	return n
}

// Len is the number of tokens currently held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}

// Run sweeps every interval until ctx is cancelled.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}

var _ repository.RevocationLedger = (*Memory)(nil)
