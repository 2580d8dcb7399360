package scheduler

import (
	"sync"
	"time"

	"github.com/filestore/scheduler/core/request"
)

// rrScheduler dispatches chunks FIFO: a request that exhausts its
// quantum is requeued at the tail, behind everything submitted or
// requeued before it.
type rrScheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*request.Request
	shutdown bool
	quantum  time.Duration
}

func newRR(quantum time.Duration) *rrScheduler {
	s := &rrScheduler{quantum: quantum}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *rrScheduler) Submit(req *request.Request) {
	s.mu.Lock()
	s.queue = append(s.queue, req)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *rrScheduler) Next() *request.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 && !s.shutdown {
		s.cond.Wait()
	}

	if len(s.queue) == 0 {
		return nil
	}

	req := s.queue[0]
	s.queue = s.queue[1:]
	return req
}

// Requeue appends req to the tail of the FIFO and wakes one waiter.
func (s *rrScheduler) Requeue(req *request.Request) {
	s.mu.Lock()
	s.queue = append(s.queue, req)
	s.mu.Unlock()
	s.cond.Signal()
}

// Quantum is the read-only time slice a worker spends on one request
// before requeueing an unfinished GET.
func (s *rrScheduler) Quantum() time.Duration {
	return s.quantum
}

func (s *rrScheduler) SignalShutdown() {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
