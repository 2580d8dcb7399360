// Package scheduler implements the three admission policies the
// server can be started with: first-come-first-served, shortest-job-
// first, and round-robin with a time quantum. All three share the
// same Scheduler contract; only RR additionally satisfies Requeuer,
// discovered at the worker loop via a type assertion rather than an
// inheritance hierarchy.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/filestore/scheduler/core/request"
	"github.com/filestore/scheduler/lib/utils"
)

// Policy names the admission discipline.
type Policy int

const (
	FCFS Policy = iota
	SJF
	RR
)

func (p Policy) String() string {
	switch p {
	case FCFS:
		return "fcfs"
	case SJF:
		return "sjf"
	case RR:
		return "rr"
	default:
		return "unknown"
	}
}

var allPolicies = []string{"fcfs", "sjf", "rr"}

// ParsePolicy resolves a case-insensitive policy name, rejecting
// anything not in {fcfs, sjf, rr}.
func ParsePolicy(s string) (Policy, error) {
	lower := strings.ToLower(s)
	if !utils.Contains(allPolicies, lower) {
		return 0, fmt.Errorf("invalid scheduling policy: %q (must be fcfs, sjf, or rr)", s)
	}

	switch lower {
	case "fcfs":
		return FCFS, nil
	case "sjf":
		return SJF, nil
	default:
		return RR, nil
	}
}

// Scheduler is the contract every policy satisfies: submit admitted
// requests, block for the next one to dispatch, and signal a graceful
// shutdown.
type Scheduler interface {
	// Submit inserts req into the policy's ready structure and wakes
	// one waiter.
	Submit(req *request.Request)

	// Next blocks until a request is ready to dispatch or shutdown has
	// been signalled with nothing left queued, in which case it
	// returns nil.
	Next() *request.Request

	// SignalShutdown sets the shutdown flag and wakes every waiter.
	SignalShutdown()
}

// Requeuer is the capability only the RR scheduler implements: a
// worker that hasn't finished a request within its quantum puts it
// back at the tail instead of marking it complete.
type Requeuer interface {
	Requeue(req *request.Request)
	Quantum() time.Duration
}

// New builds the scheduler named by policy. quantum is required (and
// must be > 0) iff policy is RR; it is ignored otherwise.
func New(policy Policy, quantum time.Duration) (Scheduler, error) {
	switch policy {
	case FCFS:
		return newFCFS(), nil
	case SJF:
		return newSJF(), nil
	case RR:
		if quantum <= 0 {
			return nil, fmt.Errorf("round robin requires a positive quantum")
		}
		return newRR(quantum), nil
	default:
		return nil, fmt.Errorf("unknown scheduling policy: %v", policy)
	}
}
