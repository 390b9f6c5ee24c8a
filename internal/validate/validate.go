// Package validate holds the client-side form validation rules.
//
// Validation is synchronous and runs before any network call, on
// submit attempts and on field blur. Server-side validation still has
// the last word; these rules only exist to fail fast.
package validate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
	"fluxo/internal/currency"
)

// User-facing messages, matching the server's locale.
const (
	MsgAmountRequired   = "Informe um valor."
	MsgAmountPositive   = "O valor deve ser maior que zero."
	MsgAmountInvalid    = "Informe um valor válido."
	MsgDescriptionEmpty = "Informe uma descrição."
	MsgDescriptionLong  = "Descrição muito longa (máximo 200 caracteres)."
	MsgAccountRequired  = "Selecione uma conta."
	MsgCategoryRequired = "Selecione uma categoria."
	MsgDateRequired     = "Informe uma data válida."
	MsgDateFuture       = "A data não pode estar no futuro."
	MsgTypeInvalid      = "Tipo de transação inválido."
)

// Result is the outcome of a full-form validation pass.
type Result struct {
	IsValid bool
	Errors  core.FieldErrors
}

// ValidateTransactionForm runs every field rule and collects the
// failures per field, in rule order.
func ValidateTransactionForm(form core.TransactionForm) Result {
	errs := core.FieldErrors{}
	for _, field := range []string{
		core.FieldType,
		core.FieldAmount,
		core.FieldDescription,
		core.FieldAccount,
		core.FieldCategory,
		core.FieldDate,
	} {
		for _, msg := range ValidateField(form, field) {
			errs.Add(field, msg)
		}
	}
	return Result{IsValid: errs.Empty(), Errors: errs}
}

// ValidateField runs the rules for a single field, the blur-time entry
// point. Unknown fields validate clean.
func ValidateField(form core.TransactionForm, field string) []string {
	switch field {
	case core.FieldType:
		if !form.Type.Valid() {
			return []string{MsgTypeInvalid}
		}
	case core.FieldAmount:
		return amountMessages(form)
	case core.FieldDescription:
		if strings.TrimSpace(form.Description) == "" {
			return []string{MsgDescriptionEmpty}
		}
		if len(form.Description) > 200 {
			return []string{MsgDescriptionLong}
		}
	case core.FieldAccount:
		if form.AccountID == 0 {
			return []string{MsgAccountRequired}
		}
	case core.FieldCategory:
		if form.CategoryID == 0 {
			return []string{MsgCategoryRequired}
		}
	case core.FieldDate:
		if form.Date.IsEmpty() || form.Date.Validate() != nil {
			return []string{MsgDateRequired}
		}
		if form.Date.After(endOfToday()) {
			return []string{MsgDateFuture}
		}
	}
	return nil
}

// Amount resolves from the raw typed string when present, falling back
// to the canonical value for programmatic forms.
func amountMessages(form core.TransactionForm) []string {
	value := form.Amount
	if raw := strings.TrimSpace(form.RawAmount); raw != "" {
		parsed, err := currency.ParseLocaleNumber(raw)
		if err != nil {
			return []string{MsgAmountInvalid}
		}
		value = parsed
	} else if form.Amount.Equal(decimal.Zero) && form.RawAmount == "" {
		return []string{MsgAmountRequired}
	}
	if !value.IsPositive() {
		return []string{MsgAmountPositive}
	}
	return nil
}

// Amount parses the form's effective amount to its canonical decimal;
// validation must already have passed.
func Amount(form core.TransactionForm) decimal.Decimal {
	if raw := strings.TrimSpace(form.RawAmount); raw != "" {
		if parsed, err := currency.ParseLocaleNumber(raw); err == nil {
			return parsed
		}
	}
	return form.Amount
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}
