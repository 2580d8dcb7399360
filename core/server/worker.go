package server

import (
	"bufio"
	"time"

	"github.com/filestore/scheduler/core/protocol"
	"github.com/filestore/scheduler/core/request"
	"github.com/filestore/scheduler/core/scheduler"
	"go.uber.org/zap"
)

// workerLoop repeatedly pulls from the scheduler and services one
// request (FCFS/SJF) or one RR chunk at a time, until Next returns
// nil (shutdown signalled and the queue drained).
func (s *Server) workerLoop(id int) {
	log := s.log.Named("worker").With("worker_id", id)
	defer log.Info("worker exiting")

	rr, isRR := s.scheduler.(scheduler.Requeuer)

	for {
		req := s.scheduler.Next()
		if req == nil {
			return
		}

		req.MarkStarted()

		if isRR {
			s.runRRChunk(req, rr, log)
		} else {
			s.runToCompletion(req, log)
		}
	}
}

// runToCompletion services a FCFS/SJF request end to end on this
// worker, then records and closes.
func (s *Server) runToCompletion(req *request.Request, log *zap.SugaredLogger) {
	w := bufio.NewWriter(req.Conn)

	switch req.Type {
	case request.PUT:
		s.store.Put(req.Filename, req.Lines)
		_ = protocol.SendLine(w, protocol.ReplyOK)

	case request.GET:
		if req.Lines == nil && req.FileSize == 0 {
			_ = protocol.SendLine(w, protocol.ReplyError("File not found"))
		} else {
			_ = protocol.SendLine(w, protocol.ReplyOK)
			_ = protocol.SendLine(w, protocol.ReplySize(req.FileSize))
			_ = protocol.SendFile(w, req.Lines, s.packetSize)
		}
	}

	req.FinishTime = time.Now()
	s.metrics.Record(req)
	_ = req.Conn.Close()

	log.Infow("completed", "type", req.Type.String(), "filename", req.Filename,
		"response_ms", req.ResponseTime())
}

// runRRChunk services one quantum-bounded chunk of req. PUTs are
// atomic (the payload is already materialized, so there is nothing
// to time-slice); GETs send one line at a time, checking elapsed time
// only after a line is sent so at least one line always makes
// progress even if a single send overruns the quantum.
func (s *Server) runRRChunk(req *request.Request, rr scheduler.Requeuer, log *zap.SugaredLogger) {
	w := bufio.NewWriter(req.Conn)

	complete := true

	switch req.Type {
	case request.PUT:
		s.store.Put(req.Filename, req.Lines)
		_ = protocol.SendLine(w, protocol.ReplyOK)

	case request.GET:
		complete = s.runRRGetChunk(req, rr, w)
	}

	if complete {
		req.FinishTime = time.Now()
		s.metrics.Record(req)
		_ = req.Conn.Close()
		log.Infow("completed (rr)", "type", req.Type.String(), "filename", req.Filename,
			"response_ms", req.ResponseTime())
		return
	}

	rr.Requeue(req)
}

// runRRGetChunk sends lines from req.Lines[req.LinesProcessed:] until
// either the file is exhausted (END is sent, chunk reports complete)
// or the quantum elapses (chunk reports incomplete, cursor left in
// place for the next dispatch). A send failure mid-chunk is treated
// as completion: the connection is dead, so there's nothing left to
// requeue toward, and the request is still recorded to metrics.
func (s *Server) runRRGetChunk(req *request.Request, rr scheduler.Requeuer, w *bufio.Writer) bool {
	if req.LinesProcessed == 0 {
		if req.Lines == nil && req.FileSize == 0 {
			_ = protocol.SendLine(w, protocol.ReplyError("File not found"))
			return true
		}
		if err := protocol.SendLine(w, protocol.ReplyOK); err != nil {
			return true
		}
		if err := protocol.SendLine(w, protocol.ReplySize(req.FileSize)); err != nil {
			return true
		}
	}

	quantum := rr.Quantum()
	chunkStart := time.Now()

	for {
		if req.LinesProcessed >= len(req.Lines) {
			_ = protocol.SendLine(w, protocol.TokEnd)
			return true
		}

		line := req.Lines[req.LinesProcessed]
		if err := protocol.SendLine(w, line); err != nil {
			return true
		}
		req.LinesProcessed++

		if time.Since(chunkStart) >= quantum {
			return false
		}
	}
}
