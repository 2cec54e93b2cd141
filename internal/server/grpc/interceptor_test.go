package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/edupass/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recLogger) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level, msg, args})
}

func (r *recLogger) Debug(_ context.Context, msg string, args ...any) { r.add("debug", msg, args) }
func (r *recLogger) Info(_ context.Context, msg string, args ...any)  { r.add("info", msg, args) }
func (r *recLogger) Warn(_ context.Context, msg string, args ...any)  { r.add("warn", msg, args) }
func (r *recLogger) Error(_ context.Context, msg string, args ...any) { r.add("error", msg, args) }
func (r *recLogger) With(...any) logging.Logger                       { return r }

func (r *recLogger) last() logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}

func newTestServer(l logging.Logger) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", l, pingerFunc(func(context.Context) error { return nil }))
}

func TestInterceptor_OKIsDebug(t *testing.T) {
	rec := &recLogger{}
	s := newTestServer(rec)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}

	e := rec.last()
	if e.level != "debug" {
		t.Fatalf("level = %q, want debug", e.level)
	}
	if got := argValue(e.args, "method"); got != "/grpc.health.v1.Health/Check" {
		t.Fatalf("method = %v", got)
	}
	if got := argValue(e.args, "code"); got != "OK" {
		t.Fatalf("code = %v, want OK", got)
	}
}

func TestInterceptor_ClientErrorIsWarn(t *testing.T) {
	rec := &recLogger{}
	s := newTestServer(rec)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	want := status.Error(codes.NotFound, "unknown service")
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if !errors.Is(err, want) {
		t.Fatalf("error not passed through: %v", err)
	}

	e := rec.last()
	if e.level != "warn" {
		t.Fatalf("level = %q, want warn", e.level)
	}
	if got := argValue(e.args, "code"); got != "NotFound" {
		t.Fatalf("code = %v, want NotFound", got)
	}
}

func TestInterceptor_PlainErrorIsError(t *testing.T) {
	rec := &recLogger{}
	s := newTestServer(rec)

	info := &grpc.UnaryServerInfo{FullMethod: "/x.Y/Z"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	}

	_, _ = s.loggingInterceptor(context.Background(), nil, info, h)

	e := rec.last()
	if e.level != "error" {
		t.Fatalf("level = %q, want error", e.level)
	}
	if got := argValue(e.args, "code"); got != "Unknown" {
		t.Fatalf("code = %v, want Unknown", got)
	}
}
