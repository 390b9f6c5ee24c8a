// Package manager orchestrates the transaction-entry flow: the
// reference-data cache, type→category coupling, debounced search and
// form submission.
package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fluxo/internal/api"
	"fluxo/internal/cache"
	"fluxo/internal/core"
	"fluxo/internal/log"
	"fluxo/internal/notify"
	"fluxo/internal/validate"
)

const accountsKey = "accounts"

func categoriesKey(t core.TransactionType) string {
	return "categories:" + string(t)
}

// ErrSubmitInFlight is returned while an earlier submission is still
// waiting for the server. It is the disable-on-submit mitigation: the
// triggering control stays off until completion or failure.
var ErrSubmitInFlight = errors.New("submission already in flight")

// DraftStore persists at most one in-progress form across reloads.
type DraftStore interface {
	Save(ctx context.Context, form core.TransactionForm) error
	Clear(ctx context.Context) error
}

// Manager owns the reference cache and drives every interaction of the
// transaction form. One instance exists per session; collaborators get
// it injected rather than reaching for globals.
type Manager struct {
	client     *api.Client
	accounts   *cache.TTLCache[[]core.Account]
	categories *cache.TTLCache[[]core.Category]
	flight     singleflight.Group
	events     *Dispatcher
	debounce   *Debouncer
	notifier   *notify.Notifier
	drafts     DraftStore
	logger     *log.Logger

	submitting chan struct{} // holds one permit

	rowsMu    sync.RWMutex
	localRows []api.TransactionRow
}

// Option configures a Manager.
type Option func(*Manager)

// WithReferenceTTL sets how long cached reference data stays valid.
func WithReferenceTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.accounts = cache.New[[]core.Account](ttl)
		m.categories = cache.New[[]core.Category](ttl)
	}
}

// WithDebounceInterval sets the search pause interval.
func WithDebounceInterval(d time.Duration) Option {
	return func(m *Manager) { m.debounce = NewDebouncer(d) }
}

// WithNotifier routes user-visible notifications.
func WithNotifier(n *notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithDraftStore enables draft persistence.
func WithDraftStore(s DraftStore) Option {
	return func(m *Manager) { m.drafts = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a manager talking through client.
func New(client *api.Client, opts ...Option) *Manager {
	m := &Manager{
		client:     client,
		accounts:   cache.New[[]core.Account](24 * time.Hour),
		categories: cache.New[[]core.Category](24 * time.Hour),
		events:     NewDispatcher(),
		debounce:   NewDebouncer(800 * time.Millisecond),
		notifier:   notify.New(),
		logger:     log.New(log.Config{Component: "manager"}),
		submitting: make(chan struct{}, 1),
	}
	m.submitting <- struct{}{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Events exposes the subscription table so setup code can wire
// reactions in one place.
func (m *Manager) Events() *Dispatcher {
	return m.events
}

// LoadReferenceData performs the one startup load: accounts and both
// category lists, fetched concurrently and cached for the session.
func (m *Manager) LoadReferenceData(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		accounts, err := m.client.Accounts(ctx)
		if err != nil {
			return err
		}
		m.accounts.Set(accountsKey, accounts)
		return nil
	})
	for _, t := range []core.TransactionType{core.Income, core.Expense} {
		t := t
		g.Go(func() error {
			cats, err := m.client.CategoriesByType(ctx, t)
			if err != nil {
				return err
			}
			m.categories.Set(categoriesKey(t), cats)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.logger.ErrorContext(ctx, "reference data load failed", log.FieldError, err)
		return err
	}
	m.logger.InfoContext(ctx, "reference data loaded")
	return nil
}

// Accounts returns the cached account list, fetching on a cold cache.
func (m *Manager) Accounts(ctx context.Context) ([]core.Account, error) {
	if accounts, ok := m.accounts.Get(accountsKey); ok {
		return accounts, nil
	}
	v, err, _ := m.flight.Do(accountsKey, func() (any, error) {
		accounts, err := m.client.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		m.accounts.Set(accountsKey, accounts)
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.Account), nil
}

// CategoriesFor returns the category list for one type, from cache
// when warm. Concurrent cold fetches for the same type collapse into
// one request.
func (m *Manager) CategoriesFor(ctx context.Context, t core.TransactionType) ([]core.Category, error) {
	if !t.Valid() {
		return nil, core.ErrInvalidType
	}
	key := categoriesKey(t)
	if cats, ok := m.categories.Get(key); ok {
		return cats, nil
	}
	v, err, _ := m.flight.Do(key, func() (any, error) {
		cats, err := m.client.CategoriesByType(ctx, t)
		if err != nil {
			return nil, err
		}
		m.categories.Set(key, cats)
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.Category), nil
}

// TypeChange is the payload of EventTypeChanged.
type TypeChange struct {
	Type       core.TransactionType
	Categories []core.Category
}

// SetType switches the form to a new transaction type: the prior
// category selection is discarded and the control repopulates with the
// categories of the new type only.
func (m *Manager) SetType(ctx context.Context, form *core.TransactionForm, t core.TransactionType) ([]core.Category, error) {
	cats, err := m.CategoriesFor(ctx, t)
	if err != nil {
		return nil, err
	}
	form.Type = t
	form.CategoryID = 0
	m.events.Dispatch(EventTypeChanged, TypeChange{Type: t, Categories: cats})
	return cats, nil
}

// CategoryPreview is the payload of EventCategoryChanged: icon, name
// and color of the newly selected category.
type CategoryPreview struct {
	Icon  string
	Name  string
	Color string
}

// SelectCategory records the selection and publishes the preview.
func (m *Manager) SelectCategory(form *core.TransactionForm, c core.Category) {
	form.CategoryID = c.ID
	m.events.Dispatch(EventCategoryChanged, CategoryPreview{
		Icon:  c.Icon,
		Name:  c.Name,
		Color: c.Color,
	})
}

// SubmitResult reports how a submission ended. Exactly one of Created
// or FieldErrors is meaningful; Message carries the server's text.
type SubmitResult struct {
	Created     *api.CreatedTransaction
	FieldErrors core.FieldErrors
	Message     string
}

// Submit runs the full submission pipeline: local validation first
// (no round trip is wasted on a form that cannot pass), then the
// guarded network call. Transport failures surface as an error after
// the draft is parked; server rejections come back in the result.
func (m *Manager) Submit(ctx context.Context, form core.TransactionForm) (*SubmitResult, error) {
	if res := validate.ValidateTransactionForm(form); !res.IsValid {
		return &SubmitResult{FieldErrors: res.Errors}, nil
	}

	select {
	case <-m.submitting:
	default:
		return nil, ErrSubmitInFlight
	}
	defer func() { m.submitting <- struct{}{} }()

	payload := api.TransactionPayload{
		Type:        form.Type,
		Amount:      validate.Amount(form).StringFixed(2),
		Description: form.Description,
		Notes:       form.Notes,
		AccountID:   form.AccountID,
		CategoryID:  form.CategoryID,
		Date:        form.Date.ISO(),
		Quick:       form.Quick,
	}

	resp, created, err := m.client.CreateTransaction(ctx, payload, uuid.NewString())
	if err != nil {
		m.logger.ErrorContext(ctx, "submission failed", log.FieldError, err)
		m.saveDraft(ctx, form)
		m.notifier.Error("Erro de conexão. Tente novamente.")
		return nil, err
	}

	if !resp.Success {
		m.logger.WarnContext(ctx, "submission rejected",
			log.FieldStatus, resp.Status, "fields", len(resp.Errors))
		if resp.Errors.Empty() {
			m.notifier.Error(rejectionMessage(resp.Message))
		}
		m.events.Dispatch(EventSubmitRejected, resp.Errors)
		return &SubmitResult{FieldErrors: resp.Errors, Message: resp.Message}, nil
	}

	m.clearDraft(ctx)
	m.notifier.Success(successMessage(resp.Message, created))
	m.events.Dispatch(EventTransactionCreated, created)
	return &SubmitResult{Created: created, Message: resp.Message}, nil
}

func rejectionMessage(msg string) string {
	if msg == "" {
		return "Erro ao criar transação."
	}
	return msg
}

func successMessage(msg string, created *api.CreatedTransaction) string {
	if msg != "" {
		return msg
	}
	if created != nil && created.AmountDisplay != "" {
		return "Transação de " + created.AmountDisplay + " criada com sucesso!"
	}
	return "Transação criada com sucesso!"
}

func (m *Manager) saveDraft(ctx context.Context, form core.TransactionForm) {
	if m.drafts == nil {
		return
	}
	if err := m.drafts.Save(ctx, form); err != nil {
		m.logger.WarnContext(ctx, "draft save failed", log.FieldError, err)
	}
}

func (m *Manager) clearDraft(ctx context.Context) {
	if m.drafts == nil {
		return
	}
	if err := m.drafts.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "draft clear failed", log.FieldError, err)
	}
}
