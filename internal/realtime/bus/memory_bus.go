package bus

import (
	"context"
	"sync"
)

// memoryBus fans events out to in-process subscribers. Delivery is
// synchronous on the publisher's goroutine.
type memoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
	closed bool
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]func(Event){}}
}

func (b *memoryBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, fn := range b.subs {
		fn(ev)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = onEvent
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.subs = map[int]func(Event){}
	b.mu.Unlock()
	return nil
}
