package server

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"grid-forecast/logging"
)

func TestGridForecastHttpServer_StopsOnContextCancel(t *testing.T) {
	muxRouter := mux.NewRouter()
	router := NewRouter(&MockForecastHandler{}, &MockDashboardHandler{}, respond("metrics"), muxRouter)
	srv := NewGridForecastHttpServer(router, muxRouter, 0, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * SHUTDOWN_TIMEOUT):
		t.Fatal("server did not shut down")
	}
}
