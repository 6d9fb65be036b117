package httpd

import (
	"sync"

	"github.com/k1LoW/podium"
)

// event is one message on the viewer event stream.
type event struct {
	Type      string              `json:"type"` // nav, selection, reload
	Nav       *navState           `json:"nav,omitempty"`
	Selection *podium.OffsetRange `json:"selection,omitempty"`
}

// hub fans events out to connected viewers. Slow viewers drop events
// rather than blocking navigation; every event carries full state so a
// dropped one is harmless.
type hub struct {
	mu      sync.RWMutex
	viewers map[string]chan event
}

func newHub() *hub {
	return &hub{
		viewers: map[string]chan event{},
	}
}

func (h *hub) subscribe(id string) chan event {
	ch := make(chan event, 8)
	h.mu.Lock()
	h.viewers[id] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.viewers, id)
	h.mu.Unlock()
}

func (h *hub) broadcast(ev event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.viewers {
		select {
		case ch <- ev:
		default:
		}
	}
}
