package payment

import "context"

// MockProvider implements Provider for testing.
type MockProvider struct {
	// Session is returned by CreateSession when Err is nil.
	Session Session
	// Err, when set, is returned by CreateSession.
	Err error

	// Calls records the params of every CreateSession invocation.
	Calls []SessionParams
}

func (m *MockProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	m.Calls = append(m.Calls, params)
	if m.Err != nil {
		return nil, m.Err
	}
	s := m.Session
	return &s, nil
}
