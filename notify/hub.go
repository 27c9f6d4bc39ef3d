package notify

import (
	"sync"
	"time"

	"github.com/yeremiapane/gobblego/utils"
)

// Event types
const (
	EventCartUpdated    = "cart_updated"
	EventCartError      = "cart_error"
	EventOrderUpdated   = "order_updated"
	EventOrderError     = "order_error"
	EventPaymentPending = "payment_pending"
	EventPaymentSuccess = "payment_success"
	EventPaymentFailed  = "payment_failed"
	EventPaymentError   = "payment_error"
	EventSessionJoined  = "session_joined"
	EventSessionError   = "session_error"
	EventMenuError      = "menu_error"
	EventNotice         = "notice"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one transient, user-facing notification.
type Notice struct {
	ID      uint64      `json:"id"`
	Event   string      `json:"event"`
	Level   Level       `json:"level"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}

// Notifier is what the services publish to.
type Notifier interface {
	Info(event, message string, data interface{})
	Error(event, message string, data interface{})
}

// Hub menampung notifikasi terakhir dan subscriber yang sedang aktif.
type Hub struct {
	mutex       sync.Mutex
	recent      []Notice
	capacity    int
	nextID      uint64
	subscribers map[chan Notice]struct{}
}

func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 50
	}
	return &Hub{
		capacity:    capacity,
		subscribers: make(map[chan Notice]struct{}),
	}
}

func (h *Hub) Info(event, message string, data interface{}) {
	h.publish(event, LevelInfo, message, data)
}

func (h *Hub) Error(event, message string, data interface{}) {
	h.publish(event, LevelError, message, data)
}

// Subscribe -> channel yang menerima setiap notice baru. Panggil cancel untuk melepas.
func (h *Hub) Subscribe(buffer int) (<-chan Notice, func()) {
	ch := make(chan Notice, buffer)
	h.mutex.Lock()
	h.subscribers[ch] = struct{}{}
	h.mutex.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mutex.Lock()
			delete(h.subscribers, ch)
			h.mutex.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Recent returns up to n notices, newest last. n <= 0 returns all kept notices.
func (h *Hub) Recent(n int) []Notice {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if n <= 0 || n > len(h.recent) {
		n = len(h.recent)
	}
	out := make([]Notice, n)
	copy(out, h.recent[len(h.recent)-n:])
	return out
}

// Since returns notices with an ID greater than afterID.
func (h *Hub) Since(afterID uint64) []Notice {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	out := []Notice{}
	for _, n := range h.recent {
		if n.ID > afterID {
			out = append(out, n)
		}
	}
	return out
}

func (h *Hub) publish(event string, level Level, message string, data interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.nextID++
	notice := Notice{
		ID:      h.nextID,
		Event:   event,
		Level:   level,
		Message: message,
		Data:    data,
		At:      time.Now(),
	}

	h.recent = append(h.recent, notice)
	if len(h.recent) > h.capacity {
		h.recent = h.recent[len(h.recent)-h.capacity:]
	}

	utils.InfoLogger.Debugf("Broadcasting %s notice to %d subscribers", event, len(h.subscribers))

	for ch := range h.subscribers {
		select {
		case ch <- notice:
		default:
			// subscriber lambat, notice dilewati
			utils.ErrorLogger.Warnf("Dropping %s notice for slow subscriber", event)
		}
	}
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Info(string, string, interface{})  {}
func (Discard) Error(string, string, interface{}) {}
