package history

import (
	"context"
	"sort"
	"sync"

	"github.com/labelcheck/backend/internal/domain"
)

// MemoryStore keeps scans in process; used when no database path is configured
type MemoryStore struct {
	mu    sync.RWMutex
	scans map[string]domain.ScanResult
}

// NewMemoryStore creates an empty in-memory scan store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scans: make(map[string]domain.ScanResult)}
}

// Save stores a copy of scan
func (m *MemoryStore) Save(ctx context.Context, scan *domain.ScanResult) error {
	if scan == nil || scan.ID == "" {
		return domain.ErrInvalidRequest
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans[scan.ID] = *scan
	return nil
}

// Get returns the scan with the given id
func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.ScanResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scan, ok := m.scans[id]
	if !ok {
		return nil, domain.ErrScanNotFound
	}
	return &scan, nil
}

// List returns the most recent scans, newest first
func (m *MemoryStore) List(ctx context.Context, limit int) ([]domain.ScanResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.mu.RLock()
	scans := make([]domain.ScanResult, 0, len(m.scans))
	for _, scan := range m.scans {
		scans = append(scans, scan)
	}
	m.mu.RUnlock()

	sort.Slice(scans, func(i, j int) bool {
		if scans[i].Timestamp.Equal(scans[j].Timestamp) {
			return scans[i].ID > scans[j].ID
		}
		return scans[i].Timestamp.After(scans[j].Timestamp)
	})
	if len(scans) > limit {
		scans = scans[:limit]
	}
	return scans, nil
}
