// Package metrics accumulates completed request records for a dump
// at shutdown. The wire/storage schema isn't part of the spec this
// repo implements; the CSV layout below mirrors the original
// implementation's column order since it's already a load-bearing
// default downstream tooling can consume.
package metrics

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/filestore/scheduler/core/request"
)

// Sink is a thread-safe, append-only collection of completed request
// snapshots.
type Sink struct {
	mu      sync.Mutex
	records []record
}

type record struct {
	reqType      string
	filename     string
	fileSize     int64
	arrivalNS    int64
	startNS      int64
	finishNS     int64
	responseTime float64
	waitingTime  float64
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{}
}

// Record copies the completed request's relevant fields in. The
// request itself is dropped by the caller after this returns — the
// sink never retains a live Request, only its snapshot.
func (s *Sink) Record(req *request.Request) {
	r := record{
		reqType:      req.Type.String(),
		filename:     req.Filename,
		fileSize:     req.FileSize,
		arrivalNS:    req.ArrivalTime.UnixNano(),
		startNS:      req.StartTime.UnixNano(),
		finishNS:     req.FinishTime.UnixNano(),
		responseTime: req.ResponseTime(),
		waitingTime:  req.WaitingTime(),
	}

	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
}

// Len reports how many completed requests have been recorded.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Dump writes one CSV row per completed request to w.
func (s *Sink) Dump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := csv.NewWriter(w)
	header := []string{
		"request_type", "filename", "file_size",
		"arrival_time_ns", "start_time_ns", "finish_time_ns",
		"response_time_ms", "waiting_time_ms",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range s.records {
		row := []string{
			r.reqType,
			r.filename,
			strconv.FormatInt(r.fileSize, 10),
			strconv.FormatInt(r.arrivalNS, 10),
			strconv.FormatInt(r.startNS, 10),
			strconv.FormatInt(r.finishNS, 10),
			strconv.FormatFloat(r.responseTime, 'f', 3, 64),
			strconv.FormatFloat(r.waitingTime, 'f', 3, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
