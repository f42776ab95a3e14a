package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

// LeaderboardEvent is the payload pushed to leaderboard subscribers.
type LeaderboardEvent struct {
	Type  string            `json:"type"`
	Teams []cluedo.Standing `json:"teams"`
}

// Broker is an in-process pub/sub for leaderboard updates.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
		done: make(chan struct{}),
	}
}

// Close tells every stream to finish. It is safe to call more than once.
func (b *Broker) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Done is closed once Close has been called.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish sends an event to every subscriber. Slow subscribers miss it.
func (b *Broker) Publish(event LeaderboardEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
