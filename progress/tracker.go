// Package progress tracks long-running background operations reported by
// external tooling as a begin/report/end notification stream keyed by opaque
// tokens, in the shape of LSP work-done progress. Notifications are applied
// in arrival order; protocol slop (late or unknown tokens) is tolerated
// rather than treated as an error.
package progress

import (
	"sync"
)

// Kind discriminates the notification variants.
type Kind int

const (
	// KindBegin starts a new task for a token.
	KindBegin Kind = iota
	// KindReport updates an existing task.
	KindReport
	// KindEnd removes a task.
	KindEnd
)

// String returns the protocol name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindReport:
		return "report"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Notification is one progress event from the host's delivery queue.
type Notification struct {
	Token string
	Kind  Kind

	// Title, Message, and Percentage are optional on report notifications;
	// HasPercentage distinguishes an absent percentage from an explicit 0.
	Title         string
	Message       string
	Percentage    int
	HasPercentage bool
}

// Task is one in-flight background operation.
type Task struct {
	Token         string
	Title         string
	Message       string
	Percentage    int
	HasPercentage bool
}

// Tracker maintains the token-to-task map in insertion order.
type Tracker struct {
	mu    sync.Mutex
	tasks map[string]*Task
	order []string

	// OnChange fires after every transition that altered state. The
	// controller hooks it to invalidate the progress field and schedule a
	// redraw. Never called with the tracker lock held.
	OnChange func()
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]*Task)}
}

// Apply processes one notification. Report and end for an unknown token are
// no-ops; begin for a known token silently replaces the previous task, since
// a reused token implies the old task already finished.
func (t *Tracker) Apply(n Notification) {
	t.mu.Lock()
	changed := false

	switch n.Kind {
	case KindBegin:
		if _, known := t.tasks[n.Token]; !known {
			t.order = append(t.order, n.Token)
		}
		t.tasks[n.Token] = &Task{
			Token:         n.Token,
			Title:         n.Title,
			Message:       n.Message,
			Percentage:    n.Percentage,
			HasPercentage: n.HasPercentage,
		}
		changed = true

	case KindReport:
		task, known := t.tasks[n.Token]
		if !known {
			break
		}
		// Only fields present in the notification overwrite; absent fields
		// keep their prior values.
		if n.Title != "" {
			task.Title = n.Title
		}
		if n.Message != "" {
			task.Message = n.Message
		}
		if n.HasPercentage {
			task.Percentage = n.Percentage
			task.HasPercentage = true
		}
		changed = true

	case KindEnd:
		if _, known := t.tasks[n.Token]; known {
			delete(t.tasks, n.Token)
			for i, token := range t.order {
				if token == n.Token {
					t.order = append(t.order[:i], t.order[i+1:]...)
					break
				}
			}
			changed = true
		}
	}

	onChange := t.OnChange
	t.mu.Unlock()

	if changed && onChange != nil {
		onChange()
	}
}

// Tasks returns the live tasks in insertion order.
func (t *Tracker) Tasks() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks := make([]Task, 0, len(t.order))
	for _, token := range t.order {
		tasks = append(tasks, *t.tasks[token])
	}
	return tasks
}

// Get returns the task for token, if present.
func (t *Tracker) Get(token string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[token]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// Empty reports whether no tasks are in flight.
func (t *Tracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tasks) == 0
}
