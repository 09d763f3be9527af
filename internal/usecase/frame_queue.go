package usecase

import (
	"sync/atomic"
)

// FrameQueue is the hand-off between the capture thread and the controller:
// multiple producers, single consumer. Push never blocks the audio callback;
// frames that do not fit are counted and dropped before enqueue. Once a
// frame is enqueued it is never dropped or reordered.
type FrameQueue struct {
	ch      chan []int16
	dropped atomic.Uint64
}

func NewFrameQueue(depth int) *FrameQueue {
	if depth < 16 {
		depth = 256
	}
	return &FrameQueue{ch: make(chan []int16, depth)}
}

// Push copies the frame into the queue. It reports false when the queue is
// full and the frame was dropped.
func (q *FrameQueue) Push(frame []int16) bool {
	if len(frame) == 0 {
		return true
	}
	copied := make([]int16, len(frame))
	copy(copied, frame)

	select {
	case q.ch <- copied:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain removes every buffered frame and concatenates them in arrival order.
func (q *FrameQueue) Drain() []int16 {
	var out []int16
	for {
		select {
		case frame := <-q.ch:
			out = append(out, frame...)
		default:
			return out
		}
	}
}

// Discard drains the queue and throws the frames away, returning how many
// were discarded.
func (q *FrameQueue) Discard() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// Dropped returns the number of frames dropped at enqueue since creation.
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}
