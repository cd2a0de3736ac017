package view

import (
	"context"
	"sync"
	"sync/atomic"

	"eventdesk/internal/api"
	"eventdesk/internal/models"
)

// MockClient implements api.Client for testing. Nil funcs succeed with
// empty results.
type MockClient struct {
	ListEventsFunc   func(ctx context.Context) ([]models.Event, error)
	ViewEventsFunc   func(ctx context.Context) ([]models.Event, error)
	JoinEventFunc    func(ctx context.Context, id models.ID) (*api.Reply, error)
	LeaveEventFunc   func(ctx context.Context, id models.ID) (*api.Reply, error)
	HostEventFunc    func(ctx context.Context, draft *models.FormDraft) (*api.Reply, error)
	JoinedEventsFunc func(ctx context.Context) ([]models.JoinedEvent, error)

	calls sync.Map
}

var _ api.Client = (*MockClient)(nil)

func (m *MockClient) record(name string) {
	v, _ := m.calls.LoadOrStore(name, new(atomic.Int32))
	v.(*atomic.Int32).Add(1)
}

// Calls returns how many times the named method was invoked.
func (m *MockClient) Calls(name string) int {
	v, ok := m.calls.Load(name)
	if !ok {
		return 0
	}

	return int(v.(*atomic.Int32).Load())
}

func (m *MockClient) ListEvents(ctx context.Context) ([]models.Event, error) {
	m.record("ListEvents")
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx)
	}

	return nil, nil
}

func (m *MockClient) ViewEvents(ctx context.Context) ([]models.Event, error) {
	m.record("ViewEvents")
	if m.ViewEventsFunc != nil {
		return m.ViewEventsFunc(ctx)
	}

	return nil, nil
}

func (m *MockClient) JoinEvent(ctx context.Context, id models.ID) (*api.Reply, error) {
	m.record("JoinEvent")
	if m.JoinEventFunc != nil {
		return m.JoinEventFunc(ctx, id)
	}

	return okReply(), nil
}

func (m *MockClient) LeaveEvent(ctx context.Context, id models.ID) (*api.Reply, error) {
	m.record("LeaveEvent")
	if m.LeaveEventFunc != nil {
		return m.LeaveEventFunc(ctx, id)
	}

	return okReply(), nil
}

func (m *MockClient) HostEvent(ctx context.Context, draft *models.FormDraft) (*api.Reply, error) {
	m.record("HostEvent")
	if m.HostEventFunc != nil {
		return m.HostEventFunc(ctx, draft)
	}

	return okReply(), nil
}

func (m *MockClient) JoinedEvents(ctx context.Context) ([]models.JoinedEvent, error) {
	m.record("JoinedEvents")
	if m.JoinedEventsFunc != nil {
		return m.JoinedEventsFunc(ctx)
	}

	return nil, nil
}

func okReply() *api.Reply {
	ok := true
	return &api.Reply{Success: &ok}
}

// alerts records every Alert call.
type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.msgs = append(a.msgs, msg)
}

func (a *alerts) All() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.msgs...)
}

// routes records every Navigate call.
type routes struct {
	mu     sync.Mutex
	routes []string
}

func (r *routes) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes = append(r.routes, route)
}

func (r *routes) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.routes...)
}
