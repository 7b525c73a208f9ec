package client

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

type UpdateCall struct {
	ID    int
	Draft domain.Draft
}

// MockAPI is an in-memory API that records every call. Set Err to make all
// calls fail, Gate to hold GetAll until the channel is closed, or
// MutationGate to hold Create, Update and Delete the same way. OnGetAll runs
// right before a successful GetAll returns.
type MockAPI struct {
	mu      sync.Mutex
	methods map[int]domain.PaymentMethod
	nextID  int

	Err          error
	Gate         chan struct{}
	MutationGate chan struct{}
	OnGetAll     func()

	GetAllCalls int
	Creates     []domain.Draft
	Updates     []UpdateCall
	Deletes     []int
}

func NewMockAPI(methods ...domain.PaymentMethod) *MockAPI {
	m := &MockAPI{methods: make(map[int]domain.PaymentMethod), nextID: 1}
	for _, method := range methods {
		m.methods[method.ID] = method
		if method.ID >= m.nextID {
			m.nextID = method.ID + 1
		}
	}
	return m
}

func (m *MockAPI) GetAll(ctx context.Context) ([]domain.PaymentMethod, error) {
	m.mu.Lock()
	m.GetAllCalls++
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	methods := make([]domain.PaymentMethod, 0, len(m.methods))
	for _, method := range m.methods {
		methods = append(methods, method)
	}
	hook := m.OnGetAll
	m.mu.Unlock()

	sort.Slice(methods, func(i, j int) bool {
		if methods[i].SortOrder != methods[j].SortOrder {
			return methods[i].SortOrder < methods[j].SortOrder
		}
		return methods[i].ID < methods[j].ID
	})
	if hook != nil {
		hook()
	}
	return methods, nil
}

// waitMutation blocks on MutationGate. Callers must not hold mu.
func (m *MockAPI) waitMutation(ctx context.Context) error {
	m.mu.Lock()
	gate := m.MutationGate
	m.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockAPI) Create(ctx context.Context, draft domain.Draft) (domain.PaymentMethod, error) {
	if err := m.waitMutation(ctx); err != nil {
		return domain.PaymentMethod{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates = append(m.Creates, draft)
	if m.Err != nil {
		return domain.PaymentMethod{}, m.Err
	}
	method := domain.PaymentMethod{
		ID:                m.nextID,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}
	m.methods[method.ID] = method
	m.nextID++
	return method, nil
}

func (m *MockAPI) Update(ctx context.Context, id int, draft domain.Draft) (domain.PaymentMethod, error) {
	if err := m.waitMutation(ctx); err != nil {
		return domain.PaymentMethod{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, UpdateCall{ID: id, Draft: draft})
	if m.Err != nil {
		return domain.PaymentMethod{}, m.Err
	}
	if _, ok := m.methods[id]; !ok {
		return domain.PaymentMethod{}, &APIError{StatusCode: 404, Message: "Payment method not found"}
	}
	method := domain.PaymentMethod{
		ID:                id,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}
	m.methods[id] = method
	return method, nil
}

func (m *MockAPI) Delete(ctx context.Context, id int) error {
	if err := m.waitMutation(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, id)
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.methods[id]; !ok {
		return &APIError{StatusCode: 404, Message: "Payment method not found"}
	}
	delete(m.methods, id)
	return nil
}

// Calls returns a snapshot of the recorded call counts.
func (m *MockAPI) Calls() (getAll, creates, updates, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetAllCalls, len(m.Creates), len(m.Updates), len(m.Deletes)
}

func (m *MockAPI) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}
