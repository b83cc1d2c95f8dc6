package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("whatsapp: pending queue is full")

// QueuedMessage is a send waiting for the client to become ready.
type QueuedMessage struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Message    string    `json:"message"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue is a bounded FIFO of pending sends.
type Queue interface {
	Push(ctx context.Context, msg QueuedMessage) error
	// Pop returns nil, nil when the queue is empty.
	Pop(ctx context.Context) (*QueuedMessage, error)
	Len(ctx context.Context) (int, error)
	// Requeue puts previously popped items back at the head, keeping their
	// order. It ignores the bound since the items already held a slot.
	Requeue(ctx context.Context, msgs []QueuedMessage) error
}

// MemoryQueue is used when Redis is not configured. Contents are lost on restart.
type MemoryQueue struct {
	mu    sync.Mutex
	items []QueuedMessage
	max   int
}

func NewMemoryQueue(max int) *MemoryQueue {
	if max <= 0 {
		max = 500
	}
	return &MemoryQueue{max: max}
}

func (q *MemoryQueue) Push(_ context.Context, msg QueuedMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.max {
		return ErrQueueFull
	}
	q.items = append(q.items, msg)
	return nil
}

func (q *MemoryQueue) Requeue(_ context.Context, msgs []QueuedMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	items := make([]QueuedMessage, 0, len(msgs)+len(q.items))
	items = append(items, msgs...)
	q.items = append(items, q.items...)
	return nil
}

func (q *MemoryQueue) Pop(_ context.Context) (*QueuedMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, nil
	}
	msg := q.items[0]
	q.items[0] = QueuedMessage{}
	q.items = q.items[1:]
	return &msg, nil
}

func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items), nil
}
