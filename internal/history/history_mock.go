package history

import (
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginSweep implements the HistoryStore interface.
func (m *MockHistoryStore) BeginSweep(runUUID string, startTime time.Time, toolPath, target string, configParams map[string]any) (int64, error) {
	args := m.Called(runUUID, startTime, toolPath, target, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordInvocation implements the HistoryStore interface.
func (m *MockHistoryStore) RecordInvocation(sweepID int64, record schema.InvocationRecord) error {
	args := m.Called(sweepID, record)
	return args.Error(0)
}

// EndSweep implements the HistoryStore interface.
func (m *MockHistoryStore) EndSweep(sweepID int64, endTime time.Time, totalFixtures, totalFailures int, status schema.SweepStatus) error {
	args := m.Called(sweepID, endTime, totalFixtures, totalFailures, status)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllSweepRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSweepRuns() ([]schema.SweepRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.SweepRunRecord)
	return runs, args.Error(1)
}

// GetInvocations implements the HistoryStore interface.
func (m *MockHistoryStore) GetInvocations(sweepID int64) ([]schema.InvocationRecord, error) {
	args := m.Called(sweepID)
	records, _ := args.Get(0).([]schema.InvocationRecord)
	return records, args.Error(1)
}

// GetAllInvocations implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllInvocations() ([]schema.InvocationRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.InvocationRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
