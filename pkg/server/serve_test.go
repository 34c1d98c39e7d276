package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/pharma-news/pkg/database"
)

func TestServeWaitsForJobs(t *testing.T) {
	a := &fakeAnalyzer{block: make(chan struct{})}
	store := database.NewMemoryStore()
	r, h := newTestRouter(a, store, 0)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, r, h.Service, time.Second)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	job, err := h.Service.CreateJob(context.Background(), CreateJobRequest{Drugs: []string{"Jardiance"}})
	require.NoError(t, err)

	cancel()
	select {
	case <-done:
		t.Fatal("Serve returned before the running job finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(a.block)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the job finished")
	}

	got, err := store.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, database.JobCompleted, got.Status)

	_, err = http.Get("http://" + ln.Addr().String() + "/health")
	assert.Error(t, err)
}

func TestServeListenerError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()

	svc := NewService(&fakeAnalyzer{}, database.NewMemoryStore(), nil, 0)
	err = Serve(context.Background(), ln, http.NotFoundHandler(), svc, time.Second)
	assert.Error(t, err)
}
