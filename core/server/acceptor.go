package server

import (
	"bufio"
	"net"

	"github.com/filestore/scheduler/core/protocol"
	"github.com/filestore/scheduler/core/request"
)

// acceptLoop is the single accepting thread: accept, stamp arrival,
// parse to completion on this goroutine, materialize GET payloads
// from the store at admission time, submit. The shutdown flag
// is observed before each accept and after accept returns, per
// spec.md §4.5.
func (s *Server) acceptLoop() {
	defer s.log.Info("acceptor exiting")

	for {
		if s.isShuttingDown() {
			return
		}

		conn, err := s.listener.Accept()
		if s.isShuttingDown() {
			if conn != nil {
				_ = conn.Close()
			}
			return
		}
		if err != nil {
			s.log.Warnw("accept failed", "error", err)
			continue
		}

		s.log.Infow("accepted connection", "remote", conn.RemoteAddr())
		s.admit(conn)
	}
}

// admit parses one connection's request, materializes a GET's payload
// from the store, and submits it to the scheduler. A malformed or
// unreadable request is answered with an error reply (best effort)
// and the connection is closed without ever reaching the scheduler.
func (s *Server) admit(conn net.Conn) {
	req := request.New(conn)
	r := bufio.NewReader(conn)

	if err := protocol.ParseRequest(r, req); err != nil {
		s.log.Warnw("malformed request", "remote", conn.RemoteAddr(), "error", err)
		w := bufio.NewWriter(conn)
		_ = protocol.SendLine(w, protocol.ReplyError("Malformed request"))
		_ = conn.Close()
		return
	}

	if req.Type == request.GET {
		if lines, ok := s.store.Get(req.Filename); ok {
			req.Lines = lines
			req.FileSize = request.Size(lines)
		} else {
			req.FileSize = 0
			req.Lines = nil
		}
	}

	s.scheduler.Submit(req)
}

// isShuttingDown reports whether Shutdown has been called.
func (s *Server) isShuttingDown() bool {
	return s.shutdown.Load()
}
