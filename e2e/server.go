package e2e

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	participanthandler "golfbot/internal/participant/handler"
	"golfbot/internal/participant/service"
	"golfbot/internal/participant/store"
	"golfbot/internal/platform/health"
	httptransport "golfbot/internal/transport/http"
	id "golfbot/pkg/domain"
)

var errInjected = errors.New("CRITICAL ERROR")

// faultyStore is the in-memory store with a switch to fail deletes on demand.
type faultyStore struct {
	*store.InMemory
	failNextDelete atomic.Bool
}

func (f *faultyStore) DeleteByID(ctx context.Context, participantID id.ParticipantID) error {
	if f.failNextDelete.CompareAndSwap(true, false) {
		return errInjected
	}
	return f.InMemory.DeleteByID(ctx, participantID)
}

// syncBuffer lets the test read logs written by server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type inProcessServer struct {
	srv   *httptest.Server
	store *faultyStore
	logs  *syncBuffer
}

func startInProcessServer() *inProcessServer {
	logs := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	st := &faultyStore{InMemory: store.NewInMemory()}
	svc := service.New(st, service.WithLogger(logger))

	healthHandler := health.New("e2e")
	healthHandler.RegisterCheck("store", svc.Ping)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:             logger,
		Participants:       participanthandler.New(svc, logger),
		Health:             healthHandler,
		Registry:           prometheus.NewRegistry(),
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"*"},
	})

	return &inProcessServer{
		srv:   httptest.NewServer(router),
		store: st,
		logs:  logs,
	}
}

func (s *inProcessServer) URL() string { return s.srv.URL }

func (s *inProcessServer) Close() { s.srv.Close() }
