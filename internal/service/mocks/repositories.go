package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/SergeiKhy/alias-shortener/internal/repository"
)

// MockAliasRepository implements repository.AliasRepository for testing
type MockAliasRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Alias
	nextID  int64
	finds   int
	inserts int

	PingErr   error
	FindErr   error
	InsertErr error
	// SkipFind makes FindByAlias always miss, to simulate losing the
	// race between the existence check and the insert.
	SkipFind bool
}

func NewMockAliasRepository() *MockAliasRepository {
	return &MockAliasRepository{
		records: make(map[string]*models.Alias),
		nextID:  1,
	}
}

func (m *MockAliasRepository) FindByAlias(ctx context.Context, alias string) (*models.Alias, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.finds++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if m.SkipFind {
		return nil, nil
	}

	record, exists := m.records[alias]
	if !exists {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (m *MockAliasRepository) Insert(ctx context.Context, record *models.Alias) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	if _, exists := m.records[record.Alias]; exists {
		return 0, repository.ErrAliasExists
	}

	record.ID = m.nextID
	m.nextID++
	copied := *record
	m.records[record.Alias] = &copied
	return record.ID, nil
}

func (m *MockAliasRepository) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PingErr
}

func (m *MockAliasRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MockAliasRepository) Finds() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.finds
}

func (m *MockAliasRepository) Inserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inserts
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]*models.Alias

	GetErr error
	SetErr error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]*models.Alias),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, alias string) (*models.Alias, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	record, exists := m.cache[alias]
	if !exists {
		return nil, repository.ErrCacheMiss
	}
	copied := *record
	return &copied, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, record *models.Alias, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	copied := *record
	m.cache[record.Alias] = &copied
	return nil
}

func (m *MockCacheRepository) Has(alias string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[alias]
	return ok
}

// StubChecker implements reachability.Checker with a fixed answer
type StubChecker struct {
	mu     sync.Mutex
	ok     bool
	probed []string
}

func NewStubChecker(ok bool) *StubChecker {
	return &StubChecker{ok: ok}
}

func (c *StubChecker) IsAcceptable(ctx context.Context, rawURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probed = append(c.probed, rawURL)
	return c.ok
}

func (c *StubChecker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.probed)
}
