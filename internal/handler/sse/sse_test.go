package sse

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	w.Open()
	require.NoError(t, w.WriteEvent("message", map[string]string{"content": "Hel"}))
	require.NoError(t, w.WriteKeepAlive())
	require.NoError(t, w.WriteEvent("done", map[string]string{"status": "complete"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t,
		"event: message\ndata: {\"content\":\"Hel\"}\n\n"+
			": keepalive\n\n"+
			"event: done\ndata: {\"status\":\"complete\"}\n\n",
		rec.Body.String(),
	)
	assert.True(t, rec.Flushed)
}

type noFlush struct{ http.ResponseWriter }

func TestNewWriter_RequiresFlusher(t *testing.T) {
	_, err := NewWriter(noFlush{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

type countingWriter struct {
	n    atomic.Int32
	fail bool
}

func (c *countingWriter) WriteKeepAlive() error {
	c.n.Add(1)
	if c.fail {
		return io.ErrClosedPipe
	}
	return nil
}

func TestTickerKeepAlive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("pings until stopped", func(t *testing.T) {
		w := &countingWriter{}
		k := NewTickerKeepAlive(5 * time.Millisecond)
		stopped := k.Start(w, logger)

		require.Eventually(t, func() bool { return w.n.Load() >= 2 }, time.Second, time.Millisecond)
		k.Stop()
		k.Stop()

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("keep-alive did not stop")
		}
	})

	t.Run("stops on write failure", func(t *testing.T) {
		w := &countingWriter{fail: true}
		k := NewTickerKeepAlive(5 * time.Millisecond)
		stopped := k.Start(w, logger)

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("keep-alive did not stop after failure")
		}
		assert.Equal(t, int32(1), w.n.Load())
		k.Stop()
	})
}
