package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/pkg/events"
)

// Mock is an Application for tests. Unset function fields return zero
// values, a no-op logger, or a fresh broker.
type Mock struct {
	ClientFunc       func() (edforge.Client, error)
	BrokerFunc       func() *events.Broker
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

var _ Application = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (edforge.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// Broker returns a broker using the mock function or a new broker.
func (m *Mock) Broker() *events.Broker {
	if m.BrokerFunc != nil {
		return m.BrokerFunc()
	}
	return events.NewBroker(m.Logger())
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
