// Package outcome folds (payload, error) pairs into the result envelope
// handed to display and statistics callers.
package outcome

import (
	"fitclub/internal/domain/failure"
)

// OKMessage is the message of every successful result.
const OKMessage = "ok"

// Result is a success flag, a display-ready message, and an optional payload.
type Result[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Kind    failure.Kind `json:"kind,omitempty"`
	Payload T            `json:"payload,omitempty"`
}

// Of builds a Result from an operation's return values.
// POST: Success iff err == nil; Kind and Message come from failure.KindOf/Message
func Of[T any](payload T, err error) Result[T] {
	if err != nil {
		return Result[T]{Message: failure.Message(err), Kind: failure.KindOf(err)}
	}
	return Result[T]{Success: true, Message: OKMessage, Payload: payload}
}

// Item is the result of one element of a batch.
type Item struct {
	ID      string       `json:"id"`
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Kind    failure.Kind `json:"kind,omitempty"`
}

// Batch accumulates independent per-item results.
type Batch struct {
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Items     []Item `json:"items"`
}

// Add records the result of one item.
func (b *Batch) Add(id string, err error) {
	if err != nil {
		b.Failed++
		b.Items = append(b.Items, Item{ID: id, Message: failure.Message(err), Kind: failure.KindOf(err)})
		return
	}
	b.Succeeded++
	b.Items = append(b.Items, Item{ID: id, Success: true, Message: OKMessage})
}
