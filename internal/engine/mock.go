package engine

import (
	"context"
	"sync"
)

// MockEngine is a mock implementation of Engine for testing
type MockEngine struct {
	mu sync.RWMutex

	// Instances tracks the state of mock instances
	Instances map[string]*InstanceInfo

	// LogOutput maps instance names to canned log output
	LogOutput map[string]string

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall

	// LastRunOptions holds the options of the most recent Run call
	LastRunOptions RunOptions

	// RunStatus is the status new instances get from Run
	// (defaults to StatusRunning).
	RunStatus InstanceStatus
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockEngine creates a new mock engine
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Instances: make(map[string]*InstanceInfo),
		LogOutput: make(map[string]string),
		Errors:    make(map[string]error),
		CallLog:   make([]MockCall, 0),
	}
}

func (m *MockEngine) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockEngine) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddInstance adds an instance to the mock
func (m *MockEngine) AddInstance(name string, status InstanceStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Instances[name] = &InstanceInfo{
		Name:   name,
		Status: status,
	}
}

// GetCallsFor returns all calls for a specific method
func (m *MockEngine) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Name returns the engine identifier
func (m *MockEngine) Name() string {
	return "mock"
}

// EnsureReady reports the engine as installed and active
func (m *MockEngine) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("EnsureReady")

	if err, ok := m.Errors["EnsureReady"]; ok {
		return err
	}
	return nil
}

// Remove force-removes an instance
func (m *MockEngine) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Remove", name)

	if err, ok := m.Errors["Remove"]; ok {
		return err
	}

	delete(m.Instances, name)
	return nil
}

// Run creates and starts a new instance
func (m *MockEngine) Run(ctx context.Context, opts RunOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Run", opts)
	m.LastRunOptions = opts

	if err, ok := m.Errors["Run"]; ok {
		return err
	}

	status := m.RunStatus
	if status == "" {
		status = StatusRunning
	}

	m.Instances[opts.Name] = &InstanceInfo{
		Name:   opts.Name,
		Status: status,
	}

	return nil
}

// Status returns the status of an instance
func (m *MockEngine) Status(ctx context.Context, name string) (*InstanceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Status", name)

	if err, ok := m.Errors["Status"]; ok {
		return nil, err
	}

	if inst, ok := m.Instances[name]; ok {
		return inst, nil
	}

	return &InstanceInfo{Name: name, Status: StatusNotFound}, nil
}

// Logs returns canned log output for an instance
func (m *MockEngine) Logs(ctx context.Context, name string, lines int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Logs", name, lines)

	if err, ok := m.Errors["Logs"]; ok {
		return "", err
	}

	return m.LogOutput[name], nil
}

// Ensure MockEngine implements Engine
var _ Engine = (*MockEngine)(nil)
