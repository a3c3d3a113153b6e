package domain

import "time"

type MutationMethod string

const (
	MethodPut    MutationMethod = "PUT"
	MethodDelete MutationMethod = "DELETE"
)

func (m MutationMethod) Valid() bool {
	return m == MethodPut || m == MethodDelete
}

// QueuedMutation is one durably stored bookmark mutation awaiting replay.
// Key is the mutation endpoint the request originally targeted; the queue
// holds at most one live entry per key, latest enqueue wins.
type QueuedMutation struct {
	Key      string
	Method   MutationMethod
	QueuedAt time.Time
}
