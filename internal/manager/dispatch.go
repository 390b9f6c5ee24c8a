package manager

import "sync"

// Event names every reaction in the client is keyed on. Keeping the
// whole table in one place makes the wiring for a given user action
// discoverable instead of scattered through setup code.
type Event string

const (
	// EventTypeChanged fires after a type switch repopulated the
	// category list. Payload: TypeChange.
	EventTypeChanged Event = "transaction:type-changed"
	// EventCategoryChanged fires when the category selection moves.
	// Payload: CategoryPreview.
	EventCategoryChanged Event = "transaction:category-changed"
	// EventTransactionCreated fires on a successful submission.
	// Payload: *api.CreatedTransaction.
	EventTransactionCreated Event = "transaction:created"
	// EventSubmitRejected fires when the server turned a submission
	// down. Payload: core.FieldErrors.
	EventSubmitRejected Event = "transaction:rejected"
	// EventSearchResults fires when a debounced search delivers.
	// Payload: SearchResult.
	EventSearchResults Event = "search:results"
)

// Handler reacts to one dispatched event.
type Handler func(payload any)

// Dispatcher is the explicit subscription table: event name to ordered
// handler list, built during setup.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

// NewDispatcher creates an empty table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Event][]Handler)}
}

// Subscribe appends h to the handler list for e.
func (d *Dispatcher) Subscribe(e Event, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[e] = append(d.handlers[e], h)
}

// Dispatch runs every handler subscribed to e, in subscription order.
func (d *Dispatcher) Dispatch(e Event, payload any) {
	d.mu.RLock()
	hs := d.handlers[e]
	d.mu.RUnlock()
	for _, h := range hs {
		h(payload)
	}
}
