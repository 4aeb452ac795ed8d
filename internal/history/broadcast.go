package history

import (
	"sync"
)

type Broadcaster struct {
	sync.RWMutex
	clients map[chan *Event]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan *Event]bool),
	}
}

func (b *Broadcaster) Subscribe() chan *Event {
	b.Lock()
	defer b.Unlock()

	ch := make(chan *Event, 10)
	b.clients[ch] = true
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan *Event) {
	b.Lock()
	defer b.Unlock()

	delete(b.clients, ch)
	close(ch)
}

func (b *Broadcaster) broadcast(event *Event) {
	b.RLock()
	defer b.RUnlock()

	for ch := range b.clients {
		select {
		case ch <- event:
		default:
			// Skip if the client is not consuming fast enough
		}
	}
}

func (b *Broadcaster) Subscribers() int {
	b.RLock()
	defer b.RUnlock()

	return len(b.clients)
}
