// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPServer implements HTTPServer for testing.
type mockHTTPServer struct {
	listenErr   error
	shutdownErr error
	stopCh      chan struct{}
	shutdowns   int
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdowns++
	close(m.stopCh)
	return m.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPServerService("test-http", server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the serve goroutine a moment to start listening.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, server.shutdowns)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after context cancellation")
	}
}

func TestHTTPServerServiceStartupFailure(t *testing.T) {
	server := newMockHTTPServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService("test-http", server, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestHTTPServerServiceDefaults(t *testing.T) {
	svc := NewHTTPServerService("", newMockHTTPServer(), 0)
	assert.Equal(t, "http-server", svc.String())
	assert.Equal(t, 10*time.Second, svc.shutdownTimeout)
}
