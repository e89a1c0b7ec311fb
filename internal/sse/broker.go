// Package sse implements a Server-Sent Events broker pushing note changes
// to connected clients. Events are scoped to the note owner: a client only
// receives events for notes belonging to its own user.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

type noteEventReq struct {
	kind   string
	userID int64
	noteID int64
}

type subscribeReq struct {
	ch     chan []byte
	userID int64
}

// Broker manages SSE client connections and broadcasts note events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (the client map). Public methods communicate with this loop through
// channels, so no mutexes are required.
type Broker struct {
	userFromCtx func(context.Context) (int64, bool)

	subscribeCh   chan subscribeReq
	unsubscribeCh chan chan []byte
	noteEventCh   chan noteEventReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. userFromCtx resolves the authenticated
// user id from a request context; requests without one are rejected.
func NewBroker(userFromCtx func(context.Context) (int64, bool)) *Broker {
	b := &Broker{
		userFromCtx:   userFromCtx,
		subscribeCh:   make(chan subscribeReq),
		unsubscribeCh: make(chan chan []byte),
		noteEventCh:   make(chan noteEventReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	// Client channel -> owning user id.
	clients := make(map[chan []byte]int64)

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case req := <-b.subscribeCh:
			clients[req.ch] = req.userID

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.noteEventCh:
			payload, err := json.Marshal(map[string]int64{"id": ev.noteID})
			if err != nil {
				continue
			}
			raw := []byte(fmt.Sprintf("event: note.%s\ndata: %s\n\n", ev.kind, payload))
			for ch, userID := range clients {
				if userID != ev.userID {
					continue
				}
				select {
				case ch <- raw:
				default:
					// Client buffer full; skip to avoid blocking broker loop.
				}
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client for userID and returns its channel.
func (b *Broker) Subscribe(userID int64) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscribeReq{ch: ch, userID: userID}:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// PublishNoteEvent broadcasts a note change to the owner's clients.
// kind is one of the noteservice event kinds (created, updated, ...).
func (b *Broker) PublishNoteEvent(kind string, userID, noteID int64) {
	if b.closed.Load() {
		return
	}
	select {
	case b.noteEventCh <- noteEventReq{kind: kind, userID: userID, noteID: noteID}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.userFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(userID)
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
