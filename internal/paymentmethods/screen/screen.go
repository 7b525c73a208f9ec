// Package screen holds the state of the payment methods admin screen: the
// list, the add/edit form and its draft, and the delete flow.
package screen

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PaymentAdmin/internal/finance/errors"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/client"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/query"
)

var (
	ErrFormClosed     = errors.New("the payment method form is not open")
	ErrSubmitInFlight = errors.New("a submit is already in progress")
)

// Confirmer asks the user whether pm should really be deleted.
type Confirmer func(pm domain.PaymentMethod) bool

type State struct {
	FormOpen   bool
	EditingID  *int
	Draft      domain.Draft
	Submitting bool
}

// Editing reports whether the form edits an existing record.
func (s State) Editing() bool {
	return s.EditingID != nil
}

type Screen struct {
	query *query.Query

	mu         sync.Mutex
	formOpen   bool
	editingID  *int
	draft      domain.Draft
	submitting bool
	// revision changes whenever the form is opened, reopened or closed.
	revision uint64
}

func New(q *query.Query) *Screen {
	return &Screen{query: q, draft: domain.NewDraft()}
}

func (s *Screen) List(ctx context.Context) ([]domain.PaymentMethod, error) {
	return s.query.List(ctx)
}

// Loading reports whether the list is being fetched.
func (s *Screen) Loading() bool {
	return s.query.Fetching()
}

func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{FormOpen: s.formOpen, Draft: s.draft, Submitting: s.submitting}
	if s.editingID != nil {
		id := *s.editingID
		state.EditingID = &id
	}
	return state
}

// Add opens a blank form.
func (s *Screen) Add() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.formOpen = true
	s.editingID = nil
	s.draft = domain.NewDraft()
	s.revision++
}

// Edit opens the form pre-filled from pm.
func (s *Screen) Edit(pm domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := pm.ID
	s.formOpen = true
	s.editingID = &id
	s.draft = domain.DraftFrom(pm)
	s.revision++
}

// Cancel discards the draft and closes the form.
func (s *Screen) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Screen) SetDraft(draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.formOpen {
		return ErrFormClosed
	}
	s.draft = draft
	return nil
}

// Submit creates or updates from the current draft. On success the list is
// invalidated and the form closed, unless it was cancelled or reopened while
// the call ran. On failure the form keeps its draft.
func (s *Screen) Submit(ctx context.Context) (domain.PaymentMethod, error) {
	s.mu.Lock()
	if !s.formOpen {
		s.mu.Unlock()
		return domain.PaymentMethod{}, ErrFormClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return domain.PaymentMethod{}, ErrSubmitInFlight
	}
	if strings.TrimSpace(s.draft.Name) == "" {
		s.mu.Unlock()
		return domain.PaymentMethod{}, financeErrors.ErrNameRequired
	}
	draft := s.draft
	var editingID *int
	if s.editingID != nil {
		id := *s.editingID
		editingID = &id
	}
	revision := s.revision
	s.submitting = true
	s.mu.Unlock()

	var saved domain.PaymentMethod
	err := s.query.Mutate(ctx, func(ctx context.Context, api client.API) error {
		var err error
		if editingID == nil {
			saved, err = api.Create(ctx, draft)
		} else {
			saved, err = api.Update(ctx, *editingID, draft)
		}
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if s.revision == revision {
		s.resetLocked()
	}
	log.Info().Int("id", saved.ID).Bool("update", editingID != nil).Msg("payment method saved")
	return saved, nil
}

// Delete removes pm once confirm agrees. It reports whether a delete call
// was made.
func (s *Screen) Delete(ctx context.Context, pm domain.PaymentMethod, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(pm) {
		return false, nil
	}

	err := s.query.Mutate(ctx, func(ctx context.Context, api client.API) error {
		return api.Delete(ctx, pm.ID)
	})
	if err != nil {
		return true, err
	}
	log.Info().Int("id", pm.ID).Msg("payment method deleted")
	return true, nil
}

func (s *Screen) resetLocked() {
	s.formOpen = false
	s.editingID = nil
	s.draft = domain.NewDraft()
	s.revision++
}
