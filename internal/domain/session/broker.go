package session

import (
	"context"
	"errors"
	"sync"
)

var ErrBrokerClosed = errors.New("session broker closed")

// Broker fans session events out to every subscribed store. The event
// channel returned by Subscribe is closed once the subscription ends.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
	Close() error
}

type subscriber struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// MemoryBroker delivers events inside a single process.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[int]*subscriber)}
}

func (b *MemoryBroker) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBrokerClosed
	}
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBrokerClosed
	}
	id := b.nextID
	b.nextID++
	s := &subscriber{ch: make(chan Event, 64), done: make(chan struct{})}
	b.subs[id] = s

	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-s.done:
				return
			case ev := <-s.ch:
				select {
				case out <- ev:
				case <-s.done:
					return
				}
			}
		}
	}()

	unsubscribe := func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		s.stop()
	}
	return out, unsubscribe, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		s.stop()
	}
	return nil
}
