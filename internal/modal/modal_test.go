package modal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fluxo/internal/api"
	"fluxo/internal/core"
	"fluxo/internal/manager"
)

func newTestModal(t *testing.T, createStatus int, createBody string) (*QuickModal, *Hooks, *struct{ reveals, hides, focuses int }) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/transactions/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts": [{"id": 1, "name": "Carteira"}]}`))
	})
	mux.HandleFunc("/transactions/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == "INCOME" {
			w.Write([]byte(`{"categories": [{"id": 10, "name": "Salário"}]}`))
			return
		}
		w.Write([]byte(`{"categories": [{"id": 20, "name": "Alimentação"}]}`))
	})
	mux.HandleFunc("/transactions/create/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(createStatus)
		w.Write([]byte(createBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	counts := &struct{ reveals, hides, focuses int }{}
	hooks := Hooks{
		Reveal:     func() { counts.reveals++ },
		Hide:       func() { counts.hides++ },
		FocusFirst: func() { counts.focuses++ },
	}

	client := api.NewClient(srv.URL, api.WithTokenSource(api.StaticTokenSource("tok")))
	mgr := manager.New(client)
	m := New(mgr, hooks, nil)
	return m, &hooks, counts
}

const successBody = `{"success": true, "message": "Transação criada com sucesso!",
	"transaction": {"id": 9, "description": "Café", "amount": "5.00",
	"amount_display": "R$ 5,00", "type": "EXPENSE", "date": "30/08/2026"}}`

func fillValid(m *QuickModal) {
	form := m.Form()
	form.Type = core.Expense
	form.RawAmount = "5,00"
	form.Description = "Café"
	form.AccountID = 1
	form.CategoryID = 20
}

func TestOpenLifecycle(t *testing.T) {
	m, _, counts := newTestModal(t, http.StatusOK, successBody)

	if m.State() != Closed {
		t.Fatalf("initial state = %v", m.State())
	}
	m.Open()
	if m.State() != Open {
		t.Fatalf("state after Open = %v", m.State())
	}
	if counts.reveals != 1 || counts.focuses != 1 {
		t.Errorf("reveals=%d focuses=%d, want 1 each", counts.reveals, counts.focuses)
	}
	if m.Form().Date.IsEmpty() {
		t.Error("empty date field should be seeded with the current date")
	}
	if m.Form().Date.ISO() != core.Today().ISO() {
		t.Errorf("seeded date = %s", m.Form().Date.ISO())
	}
}

func TestOpenIdempotentWhileOpen(t *testing.T) {
	m, _, counts := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	m.Open()
	m.Open()

	if counts.reveals != 1 {
		t.Errorf("dialog revealed %d times, want once", counts.reveals)
	}
	if m.State() != Open {
		t.Errorf("state = %v", m.State())
	}
}

func TestCloseResetsFormAndErrors(t *testing.T) {
	m, _, counts := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	fillValid(m)
	m.FieldBlurred(core.FieldDescription) // clean, but exercises the path
	m.Form().Description = ""
	m.FieldBlurred(core.FieldDescription)
	if !m.Errors().Has(core.FieldDescription) {
		t.Fatal("expected a description error before closing")
	}

	m.Close()

	if m.State() != Closed {
		t.Fatalf("state after Close = %v", m.State())
	}
	if counts.hides != 1 {
		t.Errorf("hides = %d", counts.hides)
	}
	if m.Form().Description != "" || m.Form().CategoryID != 0 {
		t.Errorf("form not reset: %+v", m.Form())
	}
	if !m.Errors().Empty() {
		t.Errorf("validation state not cleared: %v", m.Errors())
	}

	// Closing again is a no-op.
	m.Close()
	if counts.hides != 1 {
		t.Errorf("second Close hid the dialog again")
	}
}

func TestReopenSeedsDateAgain(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	m.Close()
	m.Open()

	if m.Form().Date.IsEmpty() {
		t.Error("reopened dialog should seed the date again")
	}
}

func TestSetTransactionTypeKeepsLifecycleState(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusOK, successBody)
	ctx := context.Background()

	m.Open()
	m.Form().CategoryID = 20 // Alimentação, an expense category

	var restyled core.TransactionType
	m.hooks.RestyleType = func(t core.TransactionType) { restyled = t }

	cats, err := m.SetTransactionType(ctx, core.Income)
	if err != nil {
		t.Fatalf("set type: %v", err)
	}

	if m.State() != Open {
		t.Errorf("type switch changed lifecycle state to %v", m.State())
	}
	if m.Form().CategoryID != 0 {
		t.Error("expense category selection survived the switch to income")
	}
	if len(cats) != 1 || cats[0].Name != "Salário" {
		t.Errorf("repopulated categories = %+v", cats)
	}
	if restyled != core.Income {
		t.Errorf("restyle hook saw %q", restyled)
	}
}

func TestSubmitRejectionKeepsDialogOpen(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusBadRequest,
		`{"success": false, "errors": {"amount": ["Informe um valor positivo."]}}`)

	m.Open()
	fillValid(m)

	created, err := m.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created != nil {
		t.Fatal("rejected submission returned a created transaction")
	}
	if m.State() != Open {
		t.Errorf("dialog state = %v, want Open", m.State())
	}
	if msgs := m.Errors()[core.FieldAmount]; len(msgs) != 1 {
		t.Errorf("amount messages = %v, want exactly one", msgs)
	}
}

func TestSubmitSuccessClosesDialog(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	fillValid(m)

	created, err := m.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created == nil || created.ID != 9 {
		t.Fatalf("created = %+v", created)
	}
	if m.State() != Closed {
		t.Errorf("dialog state = %v, want Closed", m.State())
	}
}

func TestSubmitLocalValidationStaysOpen(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	fillValid(m)
	m.Form().RawAmount = "0,00"

	created, err := m.Submit(context.Background())
	if err != nil || created != nil {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if !m.Errors().Has(core.FieldAmount) {
		t.Error("expected inline amount error")
	}
	if m.State() != Open {
		t.Errorf("dialog state = %v", m.State())
	}
}

func TestFieldEditedSelfClears(t *testing.T) {
	m, _, _ := newTestModal(t, http.StatusOK, successBody)

	m.Open()
	m.Form().RawAmount = "0,00"
	m.FieldBlurred(core.FieldAmount)
	if !m.Errors().Has(core.FieldAmount) {
		t.Fatal("expected blur-time amount error")
	}

	m.FieldEdited(core.FieldAmount)
	if m.Errors().Has(core.FieldAmount) {
		t.Error("edit should clear the field's messages")
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{Closed: "closed", Opening: "opening", Open: "open", Closing: "closing"}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}
