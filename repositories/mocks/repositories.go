// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/intern-timetracker/models"
)

// MockTimeLogRepository is a mock of repositories.TimeLogRepository
type MockTimeLogRepository struct {
	mock.Mock
}

// NewMockTimeLogRepository creates a mock that asserts its expectations on cleanup
func NewMockTimeLogRepository(t testing.TB) *MockTimeLogRepository {
	m := &MockTimeLogRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTimeLogRepository) Append(ctx context.Context, log *models.TimeLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockTimeLogRepository) GetAll(ctx context.Context) ([]models.TimeLog, error) {
	args := m.Called(ctx)
	logs, _ := args.Get(0).([]models.TimeLog)
	return logs, args.Error(1)
}

func (m *MockTimeLogRepository) GetByEmployee(ctx context.Context, employeeID string) ([]models.TimeLog, error) {
	args := m.Called(ctx, employeeID)
	logs, _ := args.Get(0).([]models.TimeLog)
	return logs, args.Error(1)
}

// MockAbsenceLogRepository is a mock of repositories.AbsenceLogRepository
type MockAbsenceLogRepository struct {
	mock.Mock
}

// NewMockAbsenceLogRepository creates a mock that asserts its expectations on cleanup
func NewMockAbsenceLogRepository(t testing.TB) *MockAbsenceLogRepository {
	m := &MockAbsenceLogRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAbsenceLogRepository) Append(ctx context.Context, absence *models.AbsenceLog) error {
	args := m.Called(ctx, absence)
	return args.Error(0)
}

func (m *MockAbsenceLogRepository) GetAll(ctx context.Context) ([]models.AbsenceLog, error) {
	args := m.Called(ctx)
	absences, _ := args.Get(0).([]models.AbsenceLog)
	return absences, args.Error(1)
}

func (m *MockAbsenceLogRepository) GetByEmployee(ctx context.Context, employeeID string) ([]models.AbsenceLog, error) {
	args := m.Called(ctx, employeeID)
	absences, _ := args.Get(0).([]models.AbsenceLog)
	return absences, args.Error(1)
}

// MockClockDayRepository is a mock of repositories.ClockDayRepository
type MockClockDayRepository struct {
	mock.Mock
}

// NewMockClockDayRepository creates a mock that asserts its expectations on cleanup
func NewMockClockDayRepository(t testing.TB) *MockClockDayRepository {
	m := &MockClockDayRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClockDayRepository) GetAll(ctx context.Context) ([]models.ClockDay, error) {
	args := m.Called(ctx)
	days, _ := args.Get(0).([]models.ClockDay)
	return days, args.Error(1)
}

func (m *MockClockDayRepository) GetByDay(ctx context.Context, dayOfWeek int) (*models.ClockDay, error) {
	args := m.Called(ctx, dayOfWeek)
	day, _ := args.Get(0).(*models.ClockDay)
	return day, args.Error(1)
}

func (m *MockClockDayRepository) GetActiveDays(ctx context.Context) ([]models.ClockDay, error) {
	args := m.Called(ctx)
	days, _ := args.Get(0).([]models.ClockDay)
	return days, args.Error(1)
}

func (m *MockClockDayRepository) UpdateByDay(ctx context.Context, dayOfWeek int, active bool, modifiedBy string) error {
	args := m.Called(ctx, dayOfWeek, active, modifiedBy)
	return args.Error(0)
}

// MockAuditRepository is a mock of repositories.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

// NewMockAuditRepository creates a mock that asserts its expectations on cleanup
func NewMockAuditRepository(t testing.TB) *MockAuditRepository {
	m := &MockAuditRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]models.AuditLogEntry)
	return entries, args.Error(1)
}
