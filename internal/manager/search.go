package manager

import (
	"context"
	"strings"

	"fluxo/internal/api"
	"fluxo/internal/log"
)

// SearchResult is delivered once per settled query.
type SearchResult struct {
	Query string
	Rows  []api.TransactionRow
	// Local is true when the rows came from the client-side fallback
	// instead of a server query.
	Local bool
}

// SetLocalRows replaces the already-rendered rows the client-side
// search fallback matches against.
func (m *Manager) SetLocalRows(rows []api.TransactionRow) {
	m.rowsMu.Lock()
	defer m.rowsMu.Unlock()
	m.localRows = rows
}

// FilterLocal runs the fallback search: a case-insensitive substring
// match over description, notes and category text.
func (m *Manager) FilterLocal(query string) []api.TransactionRow {
	m.rowsMu.RLock()
	rows := m.localRows
	m.rowsMu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return rows
	}
	var out []api.TransactionRow
	for _, row := range rows {
		haystack := strings.ToLower(row.Description + " " + row.Notes + " " + row.CategoryName)
		if strings.Contains(haystack, needle) {
			out = append(out, row)
		}
	}
	return out
}

// Search schedules a debounced search for query. Keystrokes arriving
// before the pause cancel the pending query, so only the last one
// runs. The settled query goes to the server; when that fails the
// local fallback answers instead. Results reach deliver (when non-nil)
// and every EventSearchResults subscriber.
func (m *Manager) Search(query string, deliver func(SearchResult)) {
	m.debounce.Schedule(func() {
		result := m.runSearch(context.Background(), query)
		if deliver != nil {
			deliver(result)
		}
		m.events.Dispatch(EventSearchResults, result)
	})
}

// CancelSearch drops any search still waiting for the pause.
func (m *Manager) CancelSearch() {
	m.debounce.Cancel()
}

func (m *Manager) runSearch(ctx context.Context, query string) SearchResult {
	rows, err := m.client.SearchTransactions(ctx, query)
	if err != nil {
		m.logger.WarnContext(ctx, "server search failed, using local fallback",
			log.FieldError, err)
		return SearchResult{Query: query, Rows: m.FilterLocal(query), Local: true}
	}
	return SearchResult{Query: query, Rows: rows}
}
