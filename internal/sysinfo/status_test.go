package sysinfo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestReporter(t *testing.T) *Reporter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	r := NewReporter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.probeURL = srv.URL
	r.cpuPercent = func(context.Context) (float64, error) { return 42.4, nil }
	r.memPercent = func(context.Context) (float64, error) { return 61.8, nil }
	r.batteries = func() (float64, bool, error) { return 88.2, true, nil }
	return r
}

func TestStatusCPU(t *testing.T) {
	r := newTestReporter(t)
	assert.Equal(t, "CPU usage is at 42 percent.", r.Status(context.Background(), "cpu"))
}

func TestStatusMemory(t *testing.T) {
	r := newTestReporter(t)
	assert.Equal(t, "Memory usage is at 62 percent.", r.Status(context.Background(), "memory"))
}

func TestStatusBattery(t *testing.T) {
	r := newTestReporter(t)
	assert.Equal(t, "Battery is at 88 percent and charging.", r.Status(context.Background(), "battery"))

	r.batteries = func() (float64, bool, error) { return 50, false, nil }
	assert.Equal(t, "Battery is at 50 percent.", r.Status(context.Background(), "battery"))

	r.batteries = func() (float64, bool, error) { return 0, false, errors.New("no battery") }
	assert.Equal(t, "No battery detected.", r.Status(context.Background(), "battery"))
}

func TestStatusNetwork(t *testing.T) {
	r := newTestReporter(t)
	assert.Equal(t, "The network is up.", r.Status(context.Background(), "network"))

	r.probeURL = "http://127.0.0.1:1"
	assert.Equal(t, "The network is unreachable.", r.Status(context.Background(), "network"))
}

func TestStatusAll(t *testing.T) {
	r := newTestReporter(t)
	msg := r.Status(context.Background(), "all")
	assert.Contains(t, msg, "CPU usage is at 42 percent.")
	assert.Contains(t, msg, "Memory usage is at 62 percent.")
	assert.Contains(t, msg, "Battery is at 88 percent and charging.")
	assert.Contains(t, msg, "The network is up.")
}

func TestStatusUnknownKindFallsBackToAll(t *testing.T) {
	r := newTestReporter(t)
	assert.Contains(t, r.Status(context.Background(), "everything"), "CPU usage")
}

func TestStatusCPUFailure(t *testing.T) {
	r := newTestReporter(t)
	r.cpuPercent = func(context.Context) (float64, error) { return 0, errors.New("proc unavailable") }
	assert.Equal(t, "I couldn't read CPU usage.", r.Status(context.Background(), "cpu"))
}
