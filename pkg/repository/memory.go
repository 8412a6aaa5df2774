package repository

import (
	"context"
	"sync"

	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu      sync.RWMutex
	records []model.Record
}

// NewMemory creates a new memory repository
func NewMemory(records ...model.Record) interfaces.Repository {
	m := &Memory{}
	m.records = append(m.records, records...)
	return m
}

// PutRecords replaces the stored records
func (m *Memory) PutRecords(ctx context.Context, records []model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external modification of the slice
	m.records = make([]model.Record, len(records))
	copy(m.records, records)
	return nil
}

// ListRecords returns a copy of the stored records
func (m *Memory) ListRecords(ctx context.Context) ([]model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]model.Record, len(m.records))
	copy(records, m.records)
	return records, nil
}

// Name returns the store name
func (m *Memory) Name() string {
	return "memory"
}

// Close closes the memory repository (no-op)
func (m *Memory) Close() error {
	return nil
}
