// Package signal implements a multicast, replay-latest boolean.
//
// A Bool holds one current value. Every subscriber first receives that value,
// then every later Set in emission order. Each subscriber has its own
// unbounded queue drained by one goroutine, so a slow reader never blocks Set
// or the other subscribers. A Bool never completes; a subscription channel is
// closed only when its cancel function is called.
package signal

import "sync"

// Bool is a replay-latest observable boolean. The zero value is not usable;
// construct it with New.
type Bool struct {
	mu     sync.Mutex
	value  bool
	nextID int
	subs   map[int]*subscriber
}

// New returns a Bool seeded with initial.
func New(initial bool) *Bool {
	return &Bool{
		value: initial,
		subs:  make(map[int]*subscriber),
	}
}

// Value returns the latest value.
func (b *Bool) Value() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Set records v as the latest value and queues it for every subscriber,
// including when v equals the previous value.
func (b *Bool) Set(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = v
	for _, s := range b.subs {
		s.push(v)
	}
}

// Subscribe returns a channel that receives the current value followed by
// every subsequent Set. The returned cancel function closes the channel and
// is safe to call more than once.
func (b *Bool) Subscribe() (<-chan bool, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	s := newSubscriber()
	s.push(b.value)
	b.subs[id] = s
	b.mu.Unlock()

	go s.run()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			s.stop()
		}
		b.mu.Unlock()
	}
	return s.out, cancel
}

type subscriber struct {
	mu      sync.Mutex
	queue   []bool
	wake    chan struct{}
	done    chan struct{}
	out     chan bool
	stopped bool
}

func newSubscriber() *subscriber {
	return &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan bool),
	}
}

func (s *subscriber) push(v bool) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
}

func (s *subscriber) run() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
