// File: internal/mocks/mocks.go
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/boxflow/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Layout() config.LayoutConfig {
	args := m.Called()
	return args.Get(0).(config.LayoutConfig)
}

func (m *MockConfig) Engine() config.EngineConfig {
	args := m.Called()
	return args.Get(0).(config.EngineConfig)
}

func (m *MockConfig) Output() config.OutputConfig {
	args := m.Called()
	return args.Get(0).(config.OutputConfig)
}

// --- Setters ---

func (m *MockConfig) SetViewport(width, height float64) {
	m.Called(width, height)
}

func (m *MockConfig) SetEngineWorkerConcurrency(w int) {
	m.Called(w)
}

func (m *MockConfig) SetOutputFormat(f string) {
	m.Called(f)
}

func (m *MockConfig) SetOutputPath(p string) {
	m.Called(p)
}
