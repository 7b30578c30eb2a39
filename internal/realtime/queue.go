package realtime

import "sync"

// MessageWriter writes one message to a connection, blocking until done
type MessageWriter interface {
	WriteMessage(message []byte) error
}

// QueuedClient is a Client whose Send never blocks: messages are queued and
// written by Run. When the queue is full the message is dropped, so a stalled
// socket only ever loses its own events.
type QueuedClient struct {
	w       MessageWriter
	out     chan []byte
	done    chan struct{}
	once    sync.Once
	onClose func()
}

// NewQueuedClient buffers up to size messages for w. onClose, if set, runs
// once when the client is closed.
func NewQueuedClient(w MessageWriter, size int, onClose func()) *QueuedClient {
	if size <= 0 {
		size = 1
	}
	return &QueuedClient{
		w:       w,
		out:     make(chan []byte, size),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Send queues message and reports whether it was accepted.
func (c *QueuedClient) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- message:
		return true
	default:
		return false
	}
}

// Run writes queued messages until the client is closed or a write fails.
func (c *QueuedClient) Run() {
	for {
		select {
		case <-c.done:
			return
		case m := <-c.out:
			if err := c.w.WriteMessage(m); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Close stops Run and rejects further sends.
func (c *QueuedClient) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.onClose != nil {
			c.onClose()
		}
	})
}
