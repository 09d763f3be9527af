package usecase

import "testing"

func TestFrameQueuePushCopiesAndDrainsInOrder(t *testing.T) {
	t.Parallel()

	q := NewFrameQueue(16)
	frame := []int16{1, 2, 3}
	if !q.Push(frame) {
		t.Fatalf("expected push to succeed")
	}
	frame[0] = 99

	got := q.Drain()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected a copy of the original frame, got %v", got)
	}
}

func TestFrameQueueDropsWhenFull(t *testing.T) {
	t.Parallel()

	q := NewFrameQueue(16)
	for i := 0; i < 16; i++ {
		if !q.Push([]int16{int16(i)}) {
			t.Fatalf("push %d should fit", i)
		}
	}
	if q.Push([]int16{100}) {
		t.Fatalf("expected push beyond capacity to be dropped")
	}
	if q.Dropped() != 1 {
		t.Fatalf("unexpected drop count: %d", q.Dropped())
	}

	got := q.Drain()
	if len(got) != 16 || got[0] != 0 || got[15] != 15 {
		t.Fatalf("enqueued frames must survive in order, got %v", got)
	}
}

func TestFrameQueueDiscardCountsFrames(t *testing.T) {
	t.Parallel()

	q := NewFrameQueue(16)
	q.Push([]int16{1})
	q.Push([]int16{2})

	if n := q.Discard(); n != 2 {
		t.Fatalf("unexpected discard count: %d", n)
	}
	if got := q.Drain(); len(got) != 0 {
		t.Fatalf("expected empty queue after discard, got %v", got)
	}
}
