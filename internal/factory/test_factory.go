package factory

import (
	"time"

	"github.com/mcoot/backlogbingo/internal/dependencies/mocks"
	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/services/source"
	"github.com/mcoot/backlogbingo/internal/storage/memory"
	"github.com/mcoot/backlogbingo/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockProvider
	MockIDs    *mocks.MockIDs
}

// NewTestApp creates an App on memory storage with a fixed clock, queued IDs
// and seeded randomness. An empty seed is hashed like any other, so every
// generated card is reproducible.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockProvider(nil)
	mockIDs := mocks.NewMockIDs()

	fetchCfg := source.DefaultFetchConfig()
	fetchCfg.AllowPrivate = true

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, metrics.New(), fetchCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}
