package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/backlogbingo/internal/dependencies/ids"
)

// MockIDs is a mock Generator returning queued IDs, then numbered ones
type MockIDs struct {
	mu    sync.Mutex
	queue []string
	count int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs with the given queued IDs
func NewMockIDs(values ...string) *MockIDs {
	return &MockIDs{queue: values}
}

// NewID returns the next queued ID, or "id-<n>" when the queue is empty
func (g *MockIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count++
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	return fmt.Sprintf("id-%d", g.count)
}

// Queue adds IDs to the queue
func (g *MockIDs) Queue(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, values...)
}
