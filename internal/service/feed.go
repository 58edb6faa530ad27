package service

import (
	"sync"

	"smart_notes/internal/models"
)

// subscriber channel buffer; slow consumers drop events rather than
// block the publisher.
const feedBuffer = 16

// NoteFeed is an in-memory broadcast hub for note events. One publisher
// (the notes service), any number of websocket subscribers.
type NoteFeed struct {
	mu   sync.Mutex
	subs map[int]chan models.NoteEvent
	next int
}

func NewNoteFeed() *NoteFeed {
	return &NoteFeed{subs: make(map[int]chan models.NoteEvent)}
}

var _ Feed = (*NoteFeed)(nil)

// Subscribe registers a new consumer. The returned cancel func removes
// the subscription and closes the channel; it is safe to call twice.
func (f *NoteFeed) Subscribe() (<-chan models.NoteEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan models.NoteEvent, feedBuffer)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to all current subscribers. Delivery is
// best-effort: a full subscriber buffer drops the event for that
// subscriber only.
func (f *NoteFeed) Publish(e models.NoteEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
