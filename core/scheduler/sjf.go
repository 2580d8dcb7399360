package scheduler

import (
	"container/heap"
	"sync"

	"github.com/filestore/scheduler/core/request"
)

// sjfHeap is a min-heap keyed on FileSize. Tie-break among equal
// sizes is whatever container/heap's sift leaves it as — spec leaves
// this implementation-defined.
type sjfHeap []*request.Request

func (h sjfHeap) Len() int            { return len(h) }
func (h sjfHeap) Less(i, j int) bool  { return h[i].FileSize < h[j].FileSize }
func (h sjfHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *sjfHeap) Push(x interface{}) { *h = append(*h, x.(*request.Request)) }
func (h *sjfHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sjfScheduler dispatches the smallest-FileSize request currently
// queued. Arrivals during a dispatch do not preempt an in-flight
// request; they simply join the heap for the next Next() call.
type sjfScheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	heap     sjfHeap
	shutdown bool
}

func newSJF() *sjfScheduler {
	s := &sjfScheduler{}
	s.cond = sync.NewCond(&s.mu)
	heap.Init(&s.heap)
	return s
}

func (s *sjfScheduler) Submit(req *request.Request) {
	s.mu.Lock()
	heap.Push(&s.heap, req)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *sjfScheduler) Next() *request.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.heap.Len() == 0 && !s.shutdown {
		s.cond.Wait()
	}

	if s.heap.Len() == 0 {
		return nil
	}

	return heap.Pop(&s.heap).(*request.Request)
}

func (s *sjfScheduler) SignalShutdown() {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
