package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("RequestID = %q, want abc", got)
	}
	if got := RequestID(WithRequestID(context.Background(), "  ")); got != "" {
		t.Fatalf("blank id stored: %q", got)
	}
}

func TestTimeLogsError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "r1")

	err := errors.New("boom")
	Time(ctx, "lifecycle.Create")(&err)

	line := buf.String()
	for _, want := range []string{"req_id=r1", "op=lifecycle.Create", "err=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestEventFormatsFields(t *testing.T) {
	buf := captureLog(t)
	Event(context.Background(), "notify.enqueue", "booking_id=%s dropped=%s", "b1", "queue_full")

	if got := strings.TrimSpace(buf.String()); got != "req_id= op=notify.enqueue booking_id=b1 dropped=queue_full" {
		t.Fatalf("line = %q", got)
	}
}
