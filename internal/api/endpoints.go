package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fluxo/internal/core"
)

// Paths of the server endpoints this client consumes.
const (
	pathCreateTransaction = "/transactions/create/"
	pathCategoriesByType  = "/transactions/api/categories/"
	pathAccounts          = "/transactions/api/accounts/"
	pathTransactionList   = "/transactions/"
)

// TransactionPayload is the structured body of a create-transaction
// request. Amount travels as the canonical numeric string.
type TransactionPayload struct {
	Type        core.TransactionType `json:"transaction_type"`
	Amount      string               `json:"amount"`
	Description string               `json:"description"`
	Notes       string               `json:"notes,omitempty"`
	AccountID   int64                `json:"account"`
	CategoryID  int64                `json:"category"`
	Date        string               `json:"transaction_date"`
	Quick       bool                 `json:"is_quick,omitempty"`
}

// CreatedTransaction is the domain part of a successful create answer.
type CreatedTransaction struct {
	ID            int64                `json:"id"`
	Description   string               `json:"description"`
	Amount        string               `json:"amount"`
	AmountDisplay string               `json:"amount_display"`
	Type          core.TransactionType `json:"type"`
	Date          string               `json:"date"` // dd/mm/yyyy
}

// TransactionRow is one already-recorded transaction as listed by the
// server. Used by search.
type TransactionRow struct {
	ID            int64                `json:"id"`
	Description   string               `json:"description"`
	Notes         string               `json:"notes,omitempty"`
	CategoryName  string               `json:"category_name,omitempty"`
	AmountDisplay string               `json:"amount_display,omitempty"`
	Type          core.TransactionType `json:"type,omitempty"`
	Date          string               `json:"date,omitempty"`
}

// CreateTransaction submits a new transaction. The idempotency key is
// client-generated so an accidental double trigger can be collapsed
// server-side. The Response is returned even on rejection so callers
// can map field errors; tx is non-nil only on success.
func (c *Client) CreateTransaction(ctx context.Context, p TransactionPayload, idempotencyKey string) (*Response, *CreatedTransaction, error) {
	var extra http.Header
	if idempotencyKey != "" {
		extra = http.Header{headerIdempotency: []string{idempotencyKey}}
	}
	resp, err := c.do(ctx, http.MethodPost, pathCreateTransaction, p, extra)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Success {
		return resp, nil, nil
	}

	var body struct {
		Transaction CreatedTransaction `json:"transaction"`
	}
	if err := resp.Decode(&body); err != nil {
		return resp, nil, nil
	}
	return resp, &body.Transaction, nil
}

// CategoriesByType fetches the category list for one transaction type.
// Every returned category is tagged with the requested type.
func (c *Client) CategoriesByType(ctx context.Context, t core.TransactionType) ([]core.Category, error) {
	if !t.Valid() {
		return nil, core.ErrInvalidType
	}
	resp, err := c.Get(ctx, pathCategoriesByType+"?type="+string(t))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerRejection{Status: resp.Status, Message: resp.Message, Errors: resp.Errors}
	}

	var body struct {
		Categories []core.Category `json:"categories"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	for i := range body.Categories {
		body.Categories[i].Type = t
	}
	return body.Categories, nil
}

// Accounts fetches the user's active accounts.
func (c *Client) Accounts(ctx context.Context) ([]core.Account, error) {
	resp, err := c.Get(ctx, pathAccounts)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerRejection{Status: resp.Status, Message: resp.Message, Errors: resp.Errors}
	}

	var body struct {
		Accounts []core.Account `json:"accounts"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return body.Accounts, nil
}

// Account fetches one account by id from the list endpoint.
func (c *Client) Account(ctx context.Context, id int64) (*core.Account, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account %d not found", id)
}

// SearchTransactions runs a server-side filtered query over the
// transaction list.
func (c *Client) SearchTransactions(ctx context.Context, query string) ([]TransactionRow, error) {
	resp, err := c.Get(ctx, pathTransactionList+"?search="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerRejection{Status: resp.Status, Message: resp.Message, Errors: resp.Errors}
	}

	var body struct {
		Transactions []TransactionRow `json:"transactions"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return body.Transactions, nil
}
