// Package protocol implements the line-oriented wire codec: framing
// of single-line messages and multi-line file payloads on top of a
// net.Conn byte stream.
package protocol

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/filestore/scheduler/core/request"
)

const (
	CmdPUT   = "PUT"
	CmdGET   = "GET"
	ReplyOK  = "OK"
	ReplyErr = "ERROR"
	TokSize  = "SIZE"
	TokEnd   = "END"
)

// ErrMalformed is returned by ParseRequest when the first line does
// not tokenize into a recognized command.
var ErrMalformed = fmt.Errorf("malformed request")

// SendLine transmits s + "\n". A net.Conn's Write on a stream socket
// keeps writing until every byte is sent or an error occurs, so a
// single Flush covers partial writes; it fails only if the socket
// write fails.
func SendLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// RecvLine reads one line up to and including '\n', stripping the
// terminator. EOF or any read error before a terminator is seen fails
// the call.
func RecvLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// SendFile writes up to packetSize lines per underlying write, each
// with its terminator, then transmits the trailing END sentinel.
// packetSize only changes how many WriteString calls are batched
// before a Flush; correctness does not depend on it.
func SendFile(w *bufio.Writer, lines []string, packetSize int) error {
	if packetSize <= 0 {
		packetSize = 1
	}

	for i := 0; i < len(lines); i += packetSize {
		end := i + packetSize
		if end > len(lines) {
			end = len(lines)
		}

		for _, line := range lines[i:end] {
			if _, err := w.WriteString(line); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}

	return SendLine(w, TokEnd)
}

// RecvFile reads lines until either an END sentinel arrives (which is
// authoritative and is not appended) or the cumulative byte count
// (len(line)+1 per line) reaches declaredSize. declaredSize is
// advisory only: an early END always wins. A payload line that is
// itself the literal "END" is indistinguishable from the sentinel —
// see DESIGN.md's note on this known wire ambiguity.
func RecvFile(r *bufio.Reader, declaredSize int64) ([]string, error) {
	var lines []string
	var received int64

	for received < declaredSize {
		line, err := RecvLine(r)
		if err != nil {
			return nil, err
		}

		if line == TokEnd {
			break
		}

		lines = append(lines, line)
		received += int64(len(line)) + 1
	}

	return lines, nil
}

// ParseRequest reads and tokenizes the first line as "<CMD> <FILENAME>"
// and fills req in place. For PUT it additionally requires a
// "SIZE <N>" line followed by the file payload. For GET, no further
// input is read. Any other token sequence returns ErrMalformed.
func ParseRequest(r *bufio.Reader, req *request.Request) error {
	head, err := RecvLine(r)
	if err != nil {
		return err
	}

	fields := strings.Fields(head)
	if len(fields) != 2 {
		return ErrMalformed
	}
	cmd, filename := fields[0], fields[1]

	switch cmd {
	case CmdPUT:
		req.Type = request.PUT
		req.Filename = filename

		sizeLine, err := RecvLine(r)
		if err != nil {
			return err
		}

		sizeFields := strings.Fields(sizeLine)
		if len(sizeFields) != 2 || sizeFields[0] != TokSize {
			return ErrMalformed
		}

		declared, err := strconv.ParseInt(sizeFields[1], 10, 64)
		if err != nil {
			return ErrMalformed
		}

		lines, err := RecvFile(r, declared)
		if err != nil {
			return err
		}

		req.Lines = lines
		req.FileSize = request.Size(lines)
		return nil

	case CmdGET:
		req.Type = request.GET
		req.Filename = filename
		return nil

	default:
		return ErrMalformed
	}
}

// ReplyError formats the ERROR reply line for a message, e.g.
// "ERROR File not found".
func ReplyError(msg string) string {
	return ReplyErr + " " + msg
}

// ReplySize formats the SIZE reply line for a byte count.
func ReplySize(n int64) string {
	return TokSize + " " + strconv.FormatInt(n, 10)
}
