// Package modal drives the quick transaction-capture dialog.
//
// One logical dialog exists per session. It is constructed once at
// application start and handed to whoever needs to open or close it;
// there is no global accessor.
package modal

import (
	"context"

	"fluxo/internal/api"
	"fluxo/internal/core"
	"fluxo/internal/log"
	"fluxo/internal/manager"
	"fluxo/internal/validate"
)

// State is the dialog lifecycle position.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Hooks are the view bindings of the dialog. Nil hooks are skipped, so
// a headless host can run the full lifecycle.
type Hooks struct {
	// Reveal makes the dialog visible. Called once per Open.
	Reveal func()
	// Hide removes the dialog from view. Called once per Close.
	Hide func()
	// FocusFirst moves focus to the first input, after the opening
	// transition has finished.
	FocusFirst func()
	// RestyleType re-renders the type-selector controls.
	RestyleType func(core.TransactionType)
	// RenderErrors paints inline messages beneath their fields.
	RenderErrors func(core.FieldErrors)
}

// QuickModal is the dialog controller.
type QuickModal struct {
	manager *manager.Manager
	hooks   Hooks
	logger  *log.Logger

	state  State
	form   core.TransactionForm
	errors core.FieldErrors
}

// New builds the dialog in its Closed state.
func New(mgr *manager.Manager, hooks Hooks, logger *log.Logger) *QuickModal {
	if logger == nil {
		logger = log.New(log.Config{Component: "modal"})
	}
	return &QuickModal{
		manager: mgr,
		hooks:   hooks,
		logger:  logger,
		form:    core.TransactionForm{Type: core.Expense, Quick: true},
		errors:  core.FieldErrors{},
	}
}

// State returns the current lifecycle position.
func (q *QuickModal) State() State {
	return q.state
}

// Form returns the in-progress entry for wiring field edits.
func (q *QuickModal) Form() *core.TransactionForm {
	return &q.form
}

// Errors returns the inline messages currently shown.
func (q *QuickModal) Errors() core.FieldErrors {
	return q.errors
}

// Open reveals the dialog. While already Opening or Open this is a
// no-op: no second visible dialog can appear. An empty date field is
// seeded with the current date, and focus moves to the first input
// once the opening transition finishes.
func (q *QuickModal) Open() {
	switch q.state {
	case Opening, Open:
		return
	}
	q.state = Opening
	q.logger.Debug("dialog opening")

	if q.hooks.Reveal != nil {
		q.hooks.Reveal()
	}
	if q.form.Date.IsEmpty() {
		q.form.Date = core.Today()
	}

	// The opening transition has run its course.
	q.state = Open
	if q.hooks.FocusFirst != nil {
		q.hooks.FocusFirst()
	}
}

// Close hides the dialog, resets the form and clears all validation
// state. While already Closing or Closed this is a no-op.
func (q *QuickModal) Close() {
	switch q.state {
	case Closing, Closed:
		return
	}
	q.state = Closing
	q.logger.Debug("dialog closing")

	if q.hooks.Hide != nil {
		q.hooks.Hide()
	}
	q.form.Reset()
	q.errors = core.FieldErrors{}

	q.state = Closed
}

// SetTransactionType switches the active selection, restyles the type
// controls and repopulates the category list. The lifecycle state does
// not change.
func (q *QuickModal) SetTransactionType(ctx context.Context, t core.TransactionType) ([]core.Category, error) {
	cats, err := q.manager.SetType(ctx, &q.form, t)
	if err != nil {
		return nil, err
	}
	if q.hooks.RestyleType != nil {
		q.hooks.RestyleType(t)
	}
	return cats, nil
}

// FieldEdited clears the inline messages of one field, the self-clear
// reaction to the field's next edit.
func (q *QuickModal) FieldEdited(field string) {
	if q.errors.Has(field) {
		q.errors.Clear(field)
		if q.hooks.RenderErrors != nil {
			q.hooks.RenderErrors(q.errors)
		}
	}
}

// FieldBlurred validates a single field as focus leaves it.
func (q *QuickModal) FieldBlurred(field string) {
	q.errors.Clear(field)
	for _, msg := range validate.ValidateField(q.form, field) {
		q.errors.Add(field, msg)
	}
	if q.hooks.RenderErrors != nil {
		q.hooks.RenderErrors(q.errors)
	}
}

// Submit runs the submission pipeline. On success the dialog closes;
// on any field-shaped failure, local or server-side, it stays open
// with the messages rendered inline. Transport failures also keep it
// open so nothing typed is lost.
func (q *QuickModal) Submit(ctx context.Context) (*api.CreatedTransaction, error) {
	res, err := q.manager.Submit(ctx, q.form)
	if err != nil {
		return nil, err
	}
	if res.Created == nil {
		q.errors = res.FieldErrors
		if q.errors == nil {
			q.errors = core.FieldErrors{}
		}
		if q.hooks.RenderErrors != nil {
			q.hooks.RenderErrors(q.errors)
		}
		return nil, nil
	}

	q.Close()
	return res.Created, nil
}
