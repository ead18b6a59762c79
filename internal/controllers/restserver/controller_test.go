package restserver

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartControllerLogsToInjectedLogger(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	cfg := config.Default()
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.Port = port

	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	c, err := NewController(ctx, &wg, cfg, almanac.New(&fakeProvider{}, nil), nil, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.StartController(); err != nil {
		t.Fatalf("StartController: %v", err)
	}

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/"
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop after cancel")
	}

	for _, msg := range []string{"Starting REST server controller...", "Shutting down the REST server..."} {
		if logs.FilterMessage(msg).Len() != 1 {
			t.Errorf("expected %q on the injected logger", msg)
		}
	}
}

func TestRequestIDHeaderAnyCase(t *testing.T) {
	c := newTestController(t, &fakeProvider{}, nil, nil)

	for _, key := range []string{"X-Request-ID", "x-request-id", "X-Request-Id"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(key, "req-"+key)
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "req-"+key {
			t.Errorf("%s: request id = %q, expected the incoming id", key, got)
		}
	}
}
