package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// msgBuffer is a bounded FIFO holding messages while the broker is
// unreachable. When full, the oldest message makes room for the newest.
// Not safe for concurrent use; the caller must synchronize.
type msgBuffer struct {
	pending  []bufferedMsg
	capacity int
	dropped  int // messages discarded since the last drain
}

func newMsgBuffer(capacity int) *msgBuffer {
	return &msgBuffer{capacity: capacity}
}

func (b *msgBuffer) push(msg bufferedMsg) {
	if len(b.pending) == b.capacity {
		if b.dropped == 0 {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", b.capacity)
		}
		b.dropped++
		copy(b.pending, b.pending[1:])
		b.pending[len(b.pending)-1] = msg
		return
	}
	b.pending = append(b.pending, msg)
}

// drainAll hands the caller everything buffered, oldest first, and leaves
// the buffer empty.
func (b *msgBuffer) drainAll() []bufferedMsg {
	if len(b.pending) == 0 {
		return nil
	}
	out := b.pending
	b.pending = nil
	b.dropped = 0
	return out
}

func (b *msgBuffer) len() int {
	return len(b.pending)
}
