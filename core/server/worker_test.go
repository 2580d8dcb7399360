package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/filestore/scheduler/core/config"
	"github.com/filestore/scheduler/core/protocol"
	"github.com/filestore/scheduler/core/request"
	"github.com/filestore/scheduler/core/scheduler"
)

// drain reads and discards lines from conn in the background so the
// writer side of a net.Pipe never blocks on an unread peer.
func drain(conn net.Conn) {
	go func() {
		r := bufio.NewReader(conn)
		for {
			if _, err := protocol.RecvLine(r); err != nil {
				return
			}
		}
	}()
}

func newChunkTestServer(t *testing.T, quantum time.Duration) (*Server, scheduler.Requeuer) {
	t.Helper()

	sched, err := scheduler.New(scheduler.RR, quantum)
	if err != nil {
		t.Fatal(err)
	}

	srv, err := New(&config.Config{}, nil, sched, nil, 10)
	if err != nil {
		t.Fatal(err)
	}

	return srv, sched.(scheduler.Requeuer)
}

func TestRunRRGetChunkMakesBoundedProgress(t *testing.T) {
	srv, rr := newChunkTestServer(t, time.Nanosecond)

	client, server := net.Pipe()
	defer client.Close()
	drain(client)

	lines := make([]string, 5)
	for i := range lines {
		lines[i] = "line"
	}
	req := request.New(server)
	req.Type = request.GET
	req.Filename = "f"
	req.Lines = lines
	req.FileSize = request.Size(lines)

	w := bufio.NewWriter(req.Conn)

	chunks := 0
	for {
		chunks++
		if chunks > len(lines)+1 {
			t.Fatal("did not complete within a bounded number of chunks")
		}

		before := req.LinesProcessed
		complete := srv.runRRGetChunk(req, rr, w)
		if complete {
			break
		}
		if req.LinesProcessed == before {
			t.Fatal("a chunk must always make at least one line of progress")
		}
	}

	if req.LinesProcessed != len(lines) {
		t.Fatalf("processed %d lines, want %d", req.LinesProcessed, len(lines))
	}
}

func TestRunRRGetChunkMissingFileCompletesImmediately(t *testing.T) {
	srv, rr := newChunkTestServer(t, time.Millisecond)

	client, server := net.Pipe()
	defer client.Close()
	drain(client)

	req := request.New(server)
	req.Type = request.GET
	req.Filename = "missing"

	w := bufio.NewWriter(req.Conn)

	if !srv.runRRGetChunk(req, rr, w) {
		t.Fatal("a missing file must complete in a single chunk")
	}
}

func TestRunRRGetChunkLargeQuantumCompletesInOneChunk(t *testing.T) {
	srv, rr := newChunkTestServer(t, time.Hour)

	client, server := net.Pipe()
	defer client.Close()
	drain(client)

	lines := []string{"a", "b", "c"}
	req := request.New(server)
	req.Type = request.GET
	req.Filename = "f"
	req.Lines = lines
	req.FileSize = request.Size(lines)

	w := bufio.NewWriter(req.Conn)

	if !srv.runRRGetChunk(req, rr, w) {
		t.Fatal("a quantum longer than the whole file should finish in one chunk")
	}
	if req.LinesProcessed != len(lines) {
		t.Fatalf("processed %d lines, want %d", req.LinesProcessed, len(lines))
	}
}
