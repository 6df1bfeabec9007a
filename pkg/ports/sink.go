package ports

// MessageSink receives the ordered conversation log the core emits. The UI
// renders from the sink; the core never renders directly.
type MessageSink interface {
	// Append adds one message to the log, attributed to the step that
	// staged it.
	Append(stepID, text string)
}

// Notifier is the fire-and-forget channel for non-fatal, user-facing
// notices (data load failures, validation rejections). The core does not
// depend on delivery succeeding.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards every notice.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
