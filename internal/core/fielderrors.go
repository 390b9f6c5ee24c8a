package core

// FieldErrors maps a form field name to the ordered list of messages
// shown beneath it. Entries are cleared field-by-field on the next edit
// to that field, never wholesale.
type FieldErrors map[string][]string

// Form field names shared by validator, API payloads and dialog wiring.
const (
	FieldType        = "transaction_type"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldAccount     = "account"
	FieldCategory    = "category"
	FieldDate        = "transaction_date"
	FieldNotes       = "notes"
	// NonFieldErrors is where the server parks errors that belong to no
	// single field.
	NonFieldErrors = "__all__"
)

// Add appends a message under field, preserving insertion order.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Clear drops all messages for one field. Used when the field is edited.
func (fe FieldErrors) Clear(field string) {
	delete(fe, field)
}

// Has reports whether field currently carries at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the message rendered directly beneath the field, or ""
// when the field is clean.
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Empty reports whether no field carries an error.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Merge copies every message from other into fe.
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}
