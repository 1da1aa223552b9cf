package picker

// MessageKind tags an inbound message.
type MessageKind int

const (
	MsgItemsFound MessageKind = iota
	MsgProgressUpdate
	MsgFinish
	MsgForceShutdown
)

func (k MessageKind) String() string {
	switch k {
	case MsgItemsFound:
		return "items-found"
	case MsgProgressUpdate:
		return "progress-update"
	case MsgFinish:
		return "finish"
	case MsgForceShutdown:
		return "force-shutdown"
	default:
		return "unknown"
	}
}

// Message is what producers send to a running Dialogue. Items is set for
// MsgItemsFound and Progress for MsgProgressUpdate.
type Message[T any] struct {
	Kind     MessageKind
	Items    []T
	Progress string
}

// ItemsFound appends a batch of items to the picker.
func ItemsFound[T any](items ...T) Message[T] {
	return Message[T]{Kind: MsgItemsFound, Items: items}
}

// ProgressUpdate replaces the status line shown above the prompt.
func ProgressUpdate[T any](text string) Message[T] {
	return Message[T]{Kind: MsgProgressUpdate, Progress: text}
}

// Finish clears the status line; the producer has nothing more to send.
func Finish[T any]() Message[T] {
	return Message[T]{Kind: MsgFinish}
}

// ForceShutdown aborts the interaction.
func ForceShutdown[T any]() Message[T] {
	return Message[T]{Kind: MsgForceShutdown}
}
