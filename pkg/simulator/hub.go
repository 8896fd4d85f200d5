package simulator

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub owns the fleet, the tick loop, and the set of live WebSocket
// subscribers. New subscribers get a full fleet snapshot on connect and
// the broadcast payload is the whole fleet every tick, so a client can
// join at any time and be complete one message later.
type Hub struct {
	mu          sync.Mutex
	fleet       *Fleet
	subscribers map[*subscriber]struct{}

	tick  time.Duration
	posdb *PosDB

	upgrader websocket.Upgrader
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub builds a hub with n trains inside bounds. posdb may be nil; when
// set, stored positions override the random seeds and every tick is
// persisted back.
func NewHub(n int, bounds Bounds, tick time.Duration, posdb *PosDB, rng *rand.Rand) *Hub {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := &Hub{
		fleet:       NewFleet(n, bounds, rng),
		subscribers: make(map[*subscriber]struct{}),
		tick:        tick,
		posdb:       posdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if posdb != nil {
		for _, t := range h.fleet.Snapshot() {
			if lat, lng, ok, err := posdb.Load(t.ID); err != nil {
				log.Printf("posdb load %s: %v", t.ID, err)
			} else if ok {
				h.fleet.Restore(t.ID, lat, lng)
			}
		}
	}
	return h
}

// Run drives the tick loop until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.step()
		}
	}
}

func (h *Hub) step() {
	h.mu.Lock()
	h.fleet.Step()
	snapshot := h.fleet.Snapshot()
	h.mu.Unlock()

	if h.posdb != nil {
		if err := h.posdb.SaveAll(snapshot); err != nil {
			log.Printf("posdb save: %v", err)
		}
	}
	h.broadcast(snapshot)
}

func (h *Hub) broadcast(snapshot []Train) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("failed to marshal fleet: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(data); err != nil {
			log.Printf("failed to send update: %v", err)
			h.drop(sub)
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	_ = sub.conn.Close()
}

// ServeHTTP upgrades the request and registers the connection. The client
// receives the current fleet immediately so the map populates before the
// first tick.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("WebSocket live at /"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	snapshot := h.fleet.Snapshot()
	h.subscribers[sub] = struct{}{}
	n := len(h.subscribers)
	h.mu.Unlock()
	log.Printf("client connected (%d total)", n)

	if data, err := json.Marshal(snapshot); err == nil {
		if err := sub.send(data); err != nil {
			h.drop(sub)
			return
		}
	}

	// Drain (and discard) client frames so pings and closes are handled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(sub)
				log.Printf("client disconnected: %v", err)
				return
			}
		}
	}()
}

// TrainCount reports the fleet size.
func (h *Hub) TrainCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fleet.trains)
}

// SubscriberCount reports the number of live connections.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
