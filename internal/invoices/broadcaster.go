package invoices

import (
	"context"
	"sync"
)

// Notifier delivers "invoices changed" signals. The returned channel is
// closed once ctx is done.
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// Publisher announces that invoice rows changed.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Broadcaster is the in-process Notifier/Publisher used when no Redis is
// configured.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan struct{}]struct{})}
}

func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Publish never blocks: a subscriber with a pending signal already knows it
// has to reload.
func (b *Broadcaster) Publish(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribers reports how many live subscriptions exist.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
