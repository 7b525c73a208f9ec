package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

const paymentMethodsSchema = `
CREATE TABLE IF NOT EXISTS payment_methods (
    id                 SERIAL PRIMARY KEY,
    name               TEXT    NOT NULL CHECK (name <> ''),
    type               TEXT    NOT NULL CHECK (type IN ('Cash', 'Card', 'Online', 'Other')),
    requires_reference BOOLEAN NOT NULL DEFAULT FALSE,
    sort_order         INTEGER NOT NULL DEFAULT 0
)`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Migrate creates the payment_methods table when it does not exist yet.
func (r *PaymentRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, paymentMethodsSchema)
	return err
}

func (r *PaymentRepository) FindAllMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	query := `SELECT id, name, type, requires_reference, sort_order
              FROM payment_methods ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paymentMethods []domain.PaymentMethod
	for rows.Next() {
		var method domain.PaymentMethod
		if err := rows.Scan(&method.ID, &method.Name, &method.Type, &method.RequiresReference, &method.SortOrder); err != nil {
			return nil, err
		}
		paymentMethods = append(paymentMethods, method)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return paymentMethods, nil
}

func (r *PaymentRepository) FindMethodByID(ctx context.Context, id int) (*domain.PaymentMethod, error) {
	query := `SELECT id, name, type, requires_reference, sort_order
              FROM payment_methods WHERE id = $1`

	var method domain.PaymentMethod
	err := r.db.QueryRowContext(ctx, query, id).Scan(&method.ID, &method.Name, &method.Type, &method.RequiresReference, &method.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

func (r *PaymentRepository) CreateMethod(ctx context.Context, draft domain.Draft) (*domain.PaymentMethod, error) {
	query := `INSERT INTO payment_methods (name, type, requires_reference, sort_order)
              VALUES ($1, $2, $3, $4) RETURNING id`

	method := domain.PaymentMethod{
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}
	err := r.db.QueryRowContext(ctx, query, draft.Name, string(draft.Type), draft.RequiresReference, draft.SortOrder).Scan(&method.ID)
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *PaymentRepository) UpdateMethod(ctx context.Context, id int, draft domain.Draft) (*domain.PaymentMethod, error) {
	query := `UPDATE payment_methods
              SET name = $1, type = $2, requires_reference = $3, sort_order = $4
              WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, draft.Name, string(draft.Type), draft.RequiresReference, draft.SortOrder, id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrPaymentMethodNotFound
	}

	return &domain.PaymentMethod{
		ID:                id,
		Name:              draft.Name,
		Type:              draft.Type,
		RequiresReference: draft.RequiresReference,
		SortOrder:         draft.SortOrder,
	}, nil
}

func (r *PaymentRepository) DeleteMethod(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM payment_methods WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPaymentMethodNotFound
	}
	return nil
}
