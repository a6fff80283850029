package observable

import "sync"

// DefaultCapacity is the per-receiver buffer of a Broadcaster.
const DefaultCapacity = 32

// Broadcaster fans notifications out to every receiver. Publish never blocks:
// when a receiver's buffer is full its oldest pending notification is dropped.
type Broadcaster[N any] struct {
	mu        sync.Mutex
	receivers []*Receiver[N]
	capacity  int
}

func NewBroadcaster[N any](capacity int) *Broadcaster[N] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Broadcaster[N]{capacity: capacity}
}

// Subscribe registers a new receiver that sees notifications published from now on.
func (b *Broadcaster[N]) Subscribe() *Receiver[N] {
	r := &Receiver[N]{ch: make(chan N, b.capacity)}

	b.mu.Lock()
	b.receivers = append(b.receivers, r)
	b.mu.Unlock()

	return r
}

func (b *Broadcaster[N]) Publish(n N) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range b.receivers {
		r.push(n)
	}
}

// Receivers returns how many subscribers are registered.
func (b *Broadcaster[N]) Receivers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.receivers)
}

type Receiver[N any] struct {
	ch chan N
}

func (r *Receiver[N]) push(n N) {
	for {
		select {
		case r.ch <- n:
			return
		default:
		}

		select {
		case <-r.ch:
		default:
		}
	}
}

// TryRecv returns the next pending notification, if any.
func (r *Receiver[N]) TryRecv() (N, bool) {
	select {
	case n := <-r.ch:
		return n, true
	default:
		var zero N
		return zero, false
	}
}

// Drain hands every pending notification to fn and returns how many there were.
func (r *Receiver[N]) Drain(fn func(N)) int {
	count := 0
	for {
		n, ok := r.TryRecv()
		if !ok {
			return count
		}
		fn(n)
		count++
	}
}

func (r *Receiver[N]) Len() int {
	return len(r.ch)
}
