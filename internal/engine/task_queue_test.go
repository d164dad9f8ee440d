package engine

import (
	"container/heap"
	"testing"
	"time"
)

func TestTaskQueueOrdering(t *testing.T) {
	tq := &TaskQueue{}
	heap.Init(tq)

	base := time.Now()
	heap.Push(tq, &TaskItem{RunAt: base.Add(300 * time.Millisecond)})
	heap.Push(tq, &TaskItem{RunAt: base.Add(100 * time.Millisecond)})
	heap.Push(tq, &TaskItem{RunAt: base.Add(200 * time.Millisecond)})

	next, ok := tq.NextRunAt()
	if !ok || !next.Equal(base.Add(100*time.Millisecond)) {
		t.Fatalf("next = %v, want earliest", next)
	}

	var got []time.Time
	for tq.Len() > 0 {
		got = append(got, heap.Pop(tq).(*TaskItem).RunAt)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Before(got[i-1]) {
			t.Fatalf("pop order broken: %v", got)
		}
	}
}

func TestTaskQueuePopDue(t *testing.T) {
	tq := &TaskQueue{}
	heap.Init(tq)

	base := time.Now()
	heap.Push(tq, &TaskItem{RunAt: base.Add(-time.Millisecond)})
	heap.Push(tq, &TaskItem{RunAt: base.Add(time.Hour)})

	if _, ok := tq.PopDue(base); !ok {
		t.Fatal("due task not popped")
	}
	if _, ok := tq.PopDue(base); ok {
		t.Fatal("future task popped early")
	}
	if tq.Len() != 1 {
		t.Fatalf("queue len = %d", tq.Len())
	}
}

func TestTaskQueueEmptyNext(t *testing.T) {
	tq := &TaskQueue{}
	if _, ok := tq.NextRunAt(); ok {
		t.Fatal("empty queue reported a task")
	}
}
