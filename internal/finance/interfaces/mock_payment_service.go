package interfaces

import (
	"context"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

type MockPaymentService struct {
	Methods []domain.PaymentMethod
	Err     error

	Created   []domain.Draft
	UpdatedID []int
	DeletedID []int
}

func NewMockPaymentService(methods []domain.PaymentMethod, err error) *MockPaymentService {
	return &MockPaymentService{Methods: methods, Err: err}
}

func (m *MockPaymentService) ListPaymentMethods(_ context.Context) ([]domain.PaymentMethod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Methods, nil
}

func (m *MockPaymentService) GetPaymentMethod(_ context.Context, id int) (*domain.PaymentMethod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, method := range m.Methods {
		if method.ID == id {
			found := method
			return &found, nil
		}
	}
	return nil, domain.ErrPaymentMethodNotFound
}

func (m *MockPaymentService) CreatePaymentMethod(_ context.Context, draft domain.Draft) (*domain.PaymentMethod, error) {
	m.Created = append(m.Created, draft)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.PaymentMethod{
		ID:                len(m.Methods) + 1,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}, nil
}

func (m *MockPaymentService) UpdatePaymentMethod(_ context.Context, id int, draft domain.Draft) (*domain.PaymentMethod, error) {
	m.UpdatedID = append(m.UpdatedID, id)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.PaymentMethod{
		ID:                id,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}, nil
}

func (m *MockPaymentService) DeletePaymentMethod(_ context.Context, id int) error {
	m.DeletedID = append(m.DeletedID, id)
	return m.Err
}
