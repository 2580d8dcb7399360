package scheduler

import (
	"sync"

	"github.com/filestore/scheduler/core/request"
)

// fcfsScheduler dispatches requests in strict submission order.
type fcfsScheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*request.Request
	shutdown bool
}

func newFCFS() *fcfsScheduler {
	s := &fcfsScheduler{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *fcfsScheduler) Submit(req *request.Request) {
	s.mu.Lock()
	s.queue = append(s.queue, req)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *fcfsScheduler) Next() *request.Request {
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

func (s *fcfsScheduler) SignalShutdown() {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
