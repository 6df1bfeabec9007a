package flow

import (
	"sync"
	"time"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/schedule"
)

// MessageLog is the ordered conversation log the presentation layer renders
// from. It implements ports.MessageSink and supports subscription for
// frontends that stream output.
type MessageLog struct {
	mu       sync.Mutex
	messages []domain.Message
	watchers []chan domain.Message
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append adds one message with the next sequence number.
func (l *MessageLog) Append(stepID, text string) {
	l.mu.Lock()
	msg := domain.Message{
		Seq:    len(l.messages) + 1,
		StepID: stepID,
		Text:   text,
		At:     time.Now(),
	}
	l.messages = append(l.messages, msg)
	watchers := append([]chan domain.Message(nil), l.watchers...)
	l.mu.Unlock()

	for _, w := range watchers {
		select {
		case w <- msg:
		default: // a slow watcher never blocks the session
		}
	}
}

// Messages returns a copy of the log in order.
func (l *MessageLog) Messages() []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Message(nil), l.messages...)
}

// Watch returns a channel receiving every message appended after the call.
func (l *MessageLog) Watch() <-chan domain.Message {
	ch := make(chan domain.Message, 64)
	l.mu.Lock()
	l.watchers = append(l.watchers, ch)
	l.mu.Unlock()
	return ch
}

var _ ports.MessageSink = (*MessageLog)(nil)

// TypingMessenger stages messages through the scheduler with a bounded
// random delay, simulating a typing cadence. CancelAll on teardown
// guarantees nothing pending reaches the sink afterwards.
type TypingMessenger struct {
	scheduler *schedule.Scheduler
	sink      ports.MessageSink
	min, max  time.Duration

	// OnCancel, when set, is called once per staged message that CancelAll
	// dropped before delivery. Set before the first Say.
	OnCancel func(stepID string)

	mu     sync.Mutex
	staged map[*schedule.Handle]string
}

// NewTypingMessenger wires a scheduler to a sink.
func NewTypingMessenger(s *schedule.Scheduler, sink ports.MessageSink, minDelay, maxDelay time.Duration) *TypingMessenger {
	return &TypingMessenger{
		scheduler: s,
		sink:      sink,
		min:       minDelay,
		max:       maxDelay,
		staged:    make(map[*schedule.Handle]string),
	}
}

func (m *TypingMessenger) Say(stepID, text string) {
	// The lock is held across Schedule so the delivery closure, which may
	// fire immediately, always finds its handle registered.
	m.mu.Lock()
	defer m.mu.Unlock()
	var h *schedule.Handle
	h = m.scheduler.Schedule(func() {
		m.mu.Lock()
		delete(m.staged, h)
		m.mu.Unlock()
		m.sink.Append(stepID, text)
	}, m.min, m.max)
	m.staged[h] = stepID
}

func (m *TypingMessenger) CancelAll() {
	// Cancel first: the scheduler blocks until in-flight deliveries settle,
	// so whatever is still staged afterwards was genuinely dropped.
	m.scheduler.CancelAll()

	m.mu.Lock()
	dropped := m.staged
	m.staged = make(map[*schedule.Handle]string)
	m.mu.Unlock()

	if m.OnCancel != nil {
		for _, stepID := range dropped {
			m.OnCancel(stepID)
		}
	}
}

// DirectMessenger appends synchronously, with no typing delay. Tests and
// the headless runner use it.
type DirectMessenger struct {
	Sink ports.MessageSink
}

func (m DirectMessenger) Say(stepID, text string) {
	m.Sink.Append(stepID, text)
}

func (m DirectMessenger) CancelAll() {}
