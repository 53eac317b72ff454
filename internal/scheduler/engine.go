package scheduler

import (
	"container/heap"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrInvalidKey         = errors.New("scheduler: trigger key is required")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// Trigger arms a wake-up at At that repeats every Period. A zero Period fires
// once. TaskID and TaskName travel with every fire event.
type Trigger struct {
	Key      string
	At       time.Time
	Period   time.Duration
	TaskID   string
	TaskName string
}

// Event is delivered on C for every firing. At is the scheduled instant.
type Event struct {
	Key      string
	TaskID   string
	TaskName string
	At       time.Time
}

type entry struct {
	trigger Trigger
	index   int
}

type priorityQueue []*entry

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].trigger.At.Before(pq[j].trigger.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*entry)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// Engine is an in-process timer service keyed by trigger key. Arming an
// existing key replaces it.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	byKey   map[string]*entry
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
	fired   uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		byKey:  make(map[string]*entry),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C is closed after Stop returns.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	} else {
		close(e.out)
	}
}

func (e *Engine) Arm(t Trigger) error {
	if strings.TrimSpace(t.Key) == "" {
		return ErrInvalidKey
	}
	if t.At.IsZero() || t.Period < 0 {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	if existing, ok := e.byKey[t.Key]; ok {
		existing.trigger = t
		heap.Fix(&e.queue, existing.index)
	} else {
		item := &entry{trigger: t}
		heap.Push(&e.queue, item)
		e.byKey[t.Key] = item
	}
	e.signalWakeup()
	return nil
}

// Disarm removes key and reports whether it was armed.
func (e *Engine) Disarm(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byKey[key]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, item.index)
	delete(e.byKey, key)
	e.signalWakeup()
	return true
}

// DisarmAll clears every trigger and returns how many were armed.
func (e *Engine) DisarmAll() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.byKey)
	e.queue = make(priorityQueue, 0)
	e.byKey = make(map[string]*entry)
	e.signalWakeup()
	return n
}

// Next returns the armed trigger for key.
func (e *Engine) Next(key string) (Trigger, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byKey[key]
	if !ok {
		return Trigger{}, false
	}
	return item.trigger, true
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.byKey)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) Fired() uint64 {
	return atomic.LoadUint64(&e.fired)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(e.now()) {
				select {
				case e.out <- ev:
					atomic.AddUint64(&e.fired, 1)
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].trigger.At, true
}

// popDue collects every trigger due at now. Periodic triggers are re-armed at
// their next occurrence after now; occurrences missed while the process was
// busy are skipped, not replayed.
func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		item := e.queue[0]
		if item.trigger.At.After(now) {
			break
		}
		out = append(out, Event{
			Key:      item.trigger.Key,
			TaskID:   item.trigger.TaskID,
			TaskName: item.trigger.TaskName,
			At:       item.trigger.At,
		})
		if item.trigger.Period <= 0 {
			heap.Pop(&e.queue)
			delete(e.byKey, item.trigger.Key)
			continue
		}
		for !item.trigger.At.After(now) {
			item.trigger.At = item.trigger.At.Add(item.trigger.Period)
		}
		heap.Fix(&e.queue, item.index)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
