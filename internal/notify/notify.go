// Package notify delivers transient, dismissible user notifications.
// Every failure path in the client ends either at an inline field
// message or here; nothing fails silently.
package notify

import (
	"sync"
	"time"
)

// Level represents the type of notification to display.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Default display durations per level. Errors linger longer.
const (
	successDuration = 3 * time.Second
	errorDuration   = 5 * time.Second
)

// Notification is one transient message.
type Notification struct {
	Level    Level
	Message  string
	Duration time.Duration
	At       time.Time
}

// Notifier fans notifications out to subscribers and keeps a short
// ring of recent ones so a late-attaching view can catch up.
type Notifier struct {
	mu     sync.Mutex
	recent []Notification
	max    int
	subs   []func(Notification)
}

// New creates a notifier retaining the last few notifications.
func New() *Notifier {
	return &Notifier{max: 20}
}

// Subscribe registers fn to run for every future notification.
func (n *Notifier) Subscribe(fn func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// Publish records a notification and fans it out.
func (n *Notifier) Publish(level Level, message string, duration time.Duration) {
	note := Notification{Level: level, Message: message, Duration: duration, At: time.Now()}

	n.mu.Lock()
	n.recent = append(n.recent, note)
	if len(n.recent) > n.max {
		n.recent = n.recent[len(n.recent)-n.max:]
	}
	subs := make([]func(Notification), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(note)
	}
}

// Success publishes a success notification.
func (n *Notifier) Success(message string) {
	n.Publish(LevelSuccess, message, successDuration)
}

// Error publishes an error notification.
func (n *Notifier) Error(message string) {
	n.Publish(LevelError, message, errorDuration)
}

// Warning publishes a warning notification.
func (n *Notifier) Warning(message string) {
	n.Publish(LevelWarning, message, errorDuration)
}

// Info publishes an informational notification.
func (n *Notifier) Info(message string) {
	n.Publish(LevelInfo, message, successDuration)
}

// Recent returns a copy of the retained notifications, oldest first.
func (n *Notifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.recent))
	copy(out, n.recent)
	return out
}

// Dismiss drops every retained notification.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recent = nil
}
