// Package server wires the acceptor and worker pool around a
// Scheduler, Store, and Metrics sink into a runnable TCP server.
package server

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/filestore/scheduler/core/config"
	"github.com/filestore/scheduler/core/metrics"
	"github.com/filestore/scheduler/core/scheduler"
	"github.com/filestore/scheduler/core/store"
	"github.com/filestore/scheduler/lib/logger"
	"go.uber.org/zap"
)

// Server owns the listener, the fixed worker pool, and every
// component the scheduling core depends on.
type Server struct {
	cfg        *config.Config
	store      *store.Store
	scheduler  scheduler.Scheduler
	metrics    *metrics.Sink
	packetSize int

	listener net.Listener
	ready    chan struct{}
	wg       sync.WaitGroup
	shutdown atomic.Bool

	log *zap.SugaredLogger
}

// New builds a Server. packetSize is the non-RR GET packetization
// parameter (lines per send batch); it is ignored under RR.
func New(cfg *config.Config, st *store.Store, sched scheduler.Scheduler, sink *metrics.Sink, packetSize int) (*Server, error) {
	log, err := logger.New("server")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		store:      st,
		scheduler:  sched,
		metrics:    sink,
		packetSize: packetSize,
		ready:      make(chan struct{}),
		log:        log,
	}, nil
}

// Run binds the listener, starts the fixed worker pool and the
// acceptor, and blocks until the acceptor exits (i.e. until Shutdown
// is called and the current Accept unblocks). It then waits for every
// worker to drain the queue before returning, so all admitted work
// completes before Run returns.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.ServerIP, s.cfg.ServerPort)
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = l
	close(s.ready)

	s.log.Infow("listening", "address", l.Addr().String(), "threads", s.cfg.ServerThreads)

	for i := 0; i < s.cfg.ServerThreads; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			s.workerLoop(id)
		}(i)
	}

	s.acceptLoop()

	s.log.Info("waiting for workers to drain")
	s.wg.Wait()
	return nil
}

// Shutdown requests a graceful drain: the acceptor stops admitting new
// connections and the scheduler wakes every worker, each of which
// keeps dispatching until the queue is empty. In-flight RR requests
// are not cancelled mid-chunk.
func (s *Server) Shutdown() {
	s.shutdown.Store(true)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.scheduler.SignalShutdown()
	s.log.Info("shutdown signalled")
}

// Metrics exposes the sink for the caller to dump after Run returns.
func (s *Server) Metrics() *metrics.Sink {
	return s.metrics
}

// Addr blocks until the listener is bound and returns its address.
// Meant for tests that need to dial a server started with port 0.
func (s *Server) Addr() string {
	<-s.ready
	return s.listener.Addr().String()
}
