package wiki

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.SetBaseURL(srv.URL)
	return c
}

func TestSummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/page/summary/Ada_Lovelace", r.URL.Path)
		w.Write([]byte(`{"type":"standard","extract":"Ada Lovelace was an English mathematician. She worked on the Analytical Engine. She is often regarded as the first programmer."}`))
	})

	ok, msg := c.Summary(context.Background(), "Ada Lovelace")
	assert.True(t, ok)
	assert.Equal(t, "Ada Lovelace was an English mathematician. She worked on the Analytical Engine.", msg)
}

func TestSummaryNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok, msg := c.Summary(context.Background(), "xyzzy plugh")
	assert.False(t, ok)
	assert.Equal(t, "I couldn't find anything about xyzzy plugh.", msg)
}

func TestSummaryDisambiguation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"disambiguation","extract":"Mercury may refer to:"}`))
	})

	ok, msg := c.Summary(context.Background(), "mercury")
	assert.False(t, ok)
	assert.Contains(t, msg, "could mean several things")
}

func TestSummaryOffline(t *testing.T) {
	c := NewClient(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.SetBaseURL("http://127.0.0.1:1")

	ok, msg := c.Summary(context.Background(), "golang")
	assert.False(t, ok)
	assert.Contains(t, msg, "couldn't reach Wikipedia")
}

func TestSummaryEmptyQuery(t *testing.T) {
	c := NewClient(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ok, msg := c.Summary(context.Background(), "  ")
	assert.False(t, ok)
	assert.Contains(t, msg, "Tell me what to look up")
}

func TestFirstSentences(t *testing.T) {
	assert.Equal(t, "One. Two.", firstSentences("One. Two. Three.", 2))
	assert.Equal(t, "Short", firstSentences("Short", 2))
	assert.Equal(t, "Pi is 3.14 roughly. Next.", firstSentences("Pi is 3.14 roughly. Next. More.", 2))
}
