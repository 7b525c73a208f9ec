package domain

import (
	"context"
	"errors"
	"strings"

	financeErrors "github.com/sebuszqo/PaymentAdmin/internal/finance/errors"
)

var ErrPaymentMethodNotFound = errors.New("payment method not found")

type MethodType string

const (
	MethodTypeCash   MethodType = "Cash"
	MethodTypeCard   MethodType = "Card"
	MethodTypeOnline MethodType = "Online"
	MethodTypeOther  MethodType = "Other"
)

// MethodTypes lists the accepted types in display order.
var MethodTypes = []MethodType{MethodTypeCash, MethodTypeCard, MethodTypeOnline, MethodTypeOther}

func (t MethodType) Valid() bool {
	for _, known := range MethodTypes {
		if t == known {
			return true
		}
	}
	return false
}

type PaymentMethod struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Type              MethodType `json:"type"`
	RequiresReference bool       `json:"requiresReference"`
	SortOrder         int        `json:"sortOrder"`
}

// Draft holds the mutable fields of a payment method while it is being
// created or edited.
type Draft struct {
	Name              string     `json:"name"`
	Type              MethodType `json:"type"`
	RequiresReference bool       `json:"requiresReference"`
	SortOrder         int        `json:"sortOrder"`
}

func NewDraft() Draft {
	return Draft{Type: MethodTypeCash}
}

func DraftFrom(pm PaymentMethod) Draft {
	return Draft{
		Name:              pm.Name,
		Type:              pm.Type,
		RequiresReference: pm.RequiresReference,
		SortOrder:         pm.SortOrder,
	}
}

// Validate reports every problem with the draft at once.
func (d Draft) Validate() error {
	var errs financeErrors.ValidationErrors
	if strings.TrimSpace(d.Name) == "" {
		errs.Add(financeErrors.ErrNameRequired)
	}
	if !d.Type.Valid() {
		errs.Add(financeErrors.ErrInvalidType)
	}
	switch len(errs.Errors) {
	case 0:
		return nil
	case 1:
		return errs.Errors[0]
	default:
		return &errs
	}
}

type PaymentRepository interface {
	FindAllMethods(ctx context.Context) ([]PaymentMethod, error)
	FindMethodByID(ctx context.Context, id int) (*PaymentMethod, error)
	CreateMethod(ctx context.Context, draft Draft) (*PaymentMethod, error)
	UpdateMethod(ctx context.Context, id int, draft Draft) (*PaymentMethod, error)
	DeleteMethod(ctx context.Context, id int) error
}
