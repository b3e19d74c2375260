package guidance

import (
	"sync"

	"github.com/hyperjump/shepherd/internal/models"
)

// subscriberBuffer is the per-subscriber channel depth. Slow consumers drop
// messages rather than stall the pipeline.
const subscriberBuffer = 16

// Notifier fans out appended chat messages to per-session subscribers. The
// orchestrator publishes every persisted message; streaming handlers
// subscribe instead of polling the store.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan *models.ChatMessage]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[chan *models.ChatMessage]struct{})}
}

// Subscribe registers for messages appended to sessionID. The returned cancel
// function unregisters and closes the channel; it is safe to call twice.
func (n *Notifier) Subscribe(sessionID string) (<-chan *models.ChatMessage, func()) {
	ch := make(chan *models.ChatMessage, subscriberBuffer)

	n.mu.Lock()
	if n.subs[sessionID] == nil {
		n.subs[sessionID] = make(map[chan *models.ChatMessage]struct{})
	}
	n.subs[sessionID][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[sessionID], ch)
			if len(n.subs[sessionID]) == 0 {
				delete(n.subs, sessionID)
			}
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber of its session. Delivery is
// best-effort: subscribers with full buffers are skipped.
func (n *Notifier) Publish(msg *models.ChatMessage) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[msg.SessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers across all sessions.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	total := 0
	for _, subs := range n.subs {
		total += len(subs)
	}
	return total
}
