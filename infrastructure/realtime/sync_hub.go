package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"

	"github.com/gin-gonic/gin"
)

// SyncHub fans resync progress events out to every open SSE stream.
type SyncHub struct {
	mu   sync.RWMutex
	subs map[chan model.SyncEvent]struct{}
}

func NewSyncHub() *SyncHub {
	return &SyncHub{subs: make(map[chan model.SyncEvent]struct{})}
}

var _ repository.ISyncNotifier = (*SyncHub)(nil)

// Serve streams events to the client until it disconnects.
func (h *SyncHub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering
	c.Status(http.StatusOK)

	ch := make(chan model.SyncEvent, 8)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: sync\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// Publish never blocks: a subscriber with a full buffer misses the event.
func (h *SyncHub) Publish(_ context.Context, event model.SyncEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of open streams
func (h *SyncHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *SyncHub) addSubscriber(ch chan model.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
}

func (h *SyncHub) removeSubscriber(ch chan model.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
}
