package application

import (
	"context"
	"strings"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

type PaymentService struct {
	repo domain.PaymentRepository
}

func NewPaymentService(repo domain.PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

func (s *PaymentService) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.FindAllMethods(ctx)
	if err != nil {
		return nil, err
	}

	if methods == nil {
		return []domain.PaymentMethod{}, nil
	}

	return methods, nil
}

func (s *PaymentService) GetPaymentMethod(ctx context.Context, id int) (*domain.PaymentMethod, error) {
	return s.repo.FindMethodByID(ctx, id)
}

func (s *PaymentService) CreatePaymentMethod(ctx context.Context, draft domain.Draft) (*domain.PaymentMethod, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateMethod(ctx, draft)
}

func (s *PaymentService) UpdatePaymentMethod(ctx context.Context, id int, draft domain.Draft) (*domain.PaymentMethod, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateMethod(ctx, id, draft)
}

func (s *PaymentService) DeletePaymentMethod(ctx context.Context, id int) error {
	return s.repo.DeleteMethod(ctx, id)
}
