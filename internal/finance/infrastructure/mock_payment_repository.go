package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

// MockPaymentRepository keeps payment methods in memory. Err, when set, is
// returned from every call.
type MockPaymentRepository struct {
	mu      sync.Mutex
	Methods map[int]domain.PaymentMethod
	NextID  int
	Err     error
}

func NewMockPaymentRepository(methods ...domain.PaymentMethod) *MockPaymentRepository {
	m := &MockPaymentRepository{Methods: make(map[int]domain.PaymentMethod), NextID: 1}
	for _, method := range methods {
		m.Methods[method.ID] = method
		if method.ID >= m.NextID {
			m.NextID = method.ID + 1
		}
	}
	return m
}

func (m *MockPaymentRepository) FindAllMethods(_ context.Context) ([]domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var methods []domain.PaymentMethod
	for _, method := range m.Methods {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].SortOrder != methods[j].SortOrder {
			return methods[i].SortOrder < methods[j].SortOrder
		}
		return methods[i].ID < methods[j].ID
	})
	return methods, nil
}

func (m *MockPaymentRepository) FindMethodByID(_ context.Context, id int) (*domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	method, ok := m.Methods[id]
	if !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return &method, nil
}

func (m *MockPaymentRepository) CreateMethod(_ context.Context, draft domain.Draft) (*domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	method := domain.PaymentMethod{
		ID:                m.NextID,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}
	m.Methods[method.ID] = method
	m.NextID++
	return &method, nil
}

func (m *MockPaymentRepository) UpdateMethod(_ context.Context, id int, draft domain.Draft) (*domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	if _, ok := m.Methods[id]; !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	method := domain.PaymentMethod{
		ID:                id,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}
	m.Methods[id] = method
	return &method, nil
}

func (m *MockPaymentRepository) DeleteMethod(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.Methods[id]; !ok {
		return domain.ErrPaymentMethodNotFound
	}
	delete(m.Methods, id)
	return nil
}
