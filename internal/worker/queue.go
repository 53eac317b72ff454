// Package worker runs store and scheduling work on one background goroutine,
// so work submitted from one screen executes in submission order.
package worker

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("worker: queue closed")

type job struct {
	fn     func() error
	result chan error
}

// Queue is a single-worker FIFO. A submitted job always runs to completion;
// cancelling a caller's context only stops the caller from waiting.
type Queue struct {
	mu     sync.Mutex
	jobs   chan job
	closed bool
	done   chan struct{}
}

func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 1
	}
	q := &Queue{
		jobs: make(chan job, buffer),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for j := range q.jobs {
		err := j.fn()
		if j.result != nil {
			j.result <- err
		}
	}
}

// Go submits fn without waiting for it.
func (q *Queue) Go(fn func() error) error {
	return q.submit(job{fn: fn})
}

// Do submits fn and waits for its result or for ctx to end.
func (q *Queue) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := q.submit(job{fn: fn, result: result}); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) submit(j job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.jobs <- j
	return nil
}

// Close stops accepting work and waits for queued jobs to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
