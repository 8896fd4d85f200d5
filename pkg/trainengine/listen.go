package trainengine

import (
	"log"

	"github.com/gorilla/websocket"
)

// FeedListener consumes the position feed over a websocket and hands raw
// messages to the frame loop through a small channel. There is deliberately
// no reconnect or backoff here: a dropped connection just flips the status
// indicator and the listener returns.
type FeedListener struct {
	url      string
	messages chan []byte
	statuses chan Status
}

func NewFeedListener(url string) *FeedListener {
	return &FeedListener{
		url:      url,
		messages: make(chan []byte, 16),
		statuses: make(chan Status, 4),
	}
}

// Messages delivers raw feed payloads. When the consumer falls behind, the
// oldest pending message is discarded; per-train updates are
// last-write-wins so stale ones are worthless anyway.
func (l *FeedListener) Messages() <-chan []byte {
	return l.messages
}

// Statuses delivers connection state changes.
func (l *FeedListener) Statuses() <-chan Status {
	return l.statuses
}

// Listen dials the feed once and reads until the connection dies. Run it on
// its own goroutine.
func (l *FeedListener) Listen() {
	log.Printf("Connecting to train feed: %s", l.url)
	c, _, err := websocket.DefaultDialer.Dial(l.url, nil)
	if err != nil {
		log.Printf("Feed dial error: %v", err)
		l.pushStatus(StatusDisconnected)
		return
	}
	defer c.Close()
	l.pushStatus(StatusConnected)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("Feed read error: %v", err)
			l.pushStatus(StatusDisconnected)
			return
		}
		l.push(message)
	}
}

func (l *FeedListener) push(message []byte) {
	for {
		select {
		case l.messages <- message:
			return
		default:
			select {
			case <-l.messages:
			default:
			}
		}
	}
}

func (l *FeedListener) pushStatus(s Status) {
	select {
	case l.statuses <- s:
	default:
	}
}
