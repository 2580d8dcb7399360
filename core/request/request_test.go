package request

import (
	"testing"
	"time"
)

func TestSize(t *testing.T) {
	lines := []string{"hello", "world"}
	got := Size(lines)
	want := int64(len("hello") + 1 + len("world") + 1)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestSizeEmpty(t *testing.T) {
	if got := Size(nil); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestMarkStartedOnlySetsOnce(t *testing.T) {
	r := &Request{}
	r.MarkStarted()
	first := r.StartTime

	time.Sleep(time.Millisecond)
	r.MarkStarted()

	if !r.StartTime.Equal(first) {
		t.Fatalf("MarkStarted overwrote an existing StartTime")
	}
}

func TestResponseAndWaitingTime(t *testing.T) {
	base := time.Now()
	r := &Request{
		ArrivalTime: base,
		StartTime:   base.Add(10 * time.Millisecond),
		FinishTime:  base.Add(30 * time.Millisecond),
	}

	if got := r.WaitingTime(); got < 9.9 || got > 10.1 {
		t.Fatalf("WaitingTime = %v, want ~10", got)
	}
	if got := r.ResponseTime(); got < 29.9 || got > 30.1 {
		t.Fatalf("ResponseTime = %v, want ~30", got)
	}
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{PUT: "PUT", GET: "GET", Unknown: "UNKNOWN"}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", typ, got, want)
		}
	}
}
