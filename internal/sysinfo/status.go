// Package sysinfo reports CPU, memory, battery, and network health in
// sayable form.
package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const defaultProbeURL = "https://www.google.com/generate_204"

type Reporter struct {
	probeURL string
	http     *http.Client
	logger   *slog.Logger

	// Probes are fields so tests can swap the host-dependent readings out.
	cpuPercent func(ctx context.Context) (float64, error)
	memPercent func(ctx context.Context) (float64, error)
	batteries  func() (percent float64, charging bool, err error)
}

func NewReporter(logger *slog.Logger) *Reporter {
	return &Reporter{
		probeURL:   defaultProbeURL,
		http:       &http.Client{Timeout: 2 * time.Second},
		logger:     logger,
		cpuPercent: readCPUPercent,
		memPercent: readMemPercent,
		batteries:  readBattery,
	}
}

// Status reports the requested reading. Kind is one of cpu, memory, battery,
// network, or all; anything else falls back to all.
func (r *Reporter) Status(ctx context.Context, kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "cpu":
		return r.cpuStatus(ctx)
	case "memory":
		return r.memStatus(ctx)
	case "battery":
		return r.batteryStatus()
	case "network":
		return r.networkStatus(ctx)
	default:
		parts := []string{
			r.cpuStatus(ctx),
			r.memStatus(ctx),
			r.batteryStatus(),
			r.networkStatus(ctx),
		}
		return strings.Join(parts, " ")
	}
}

func (r *Reporter) cpuStatus(ctx context.Context) string {
	pct, err := r.cpuPercent(ctx)
	if err != nil {
		r.logger.Warn("cpu reading failed", "error", err)
		return "I couldn't read CPU usage."
	}
	return fmt.Sprintf("CPU usage is at %d percent.", int(math.Round(pct)))
}

func (r *Reporter) memStatus(ctx context.Context) string {
	pct, err := r.memPercent(ctx)
	if err != nil {
		r.logger.Warn("memory reading failed", "error", err)
		return "I couldn't read memory usage."
	}
	return fmt.Sprintf("Memory usage is at %d percent.", int(math.Round(pct)))
}

func (r *Reporter) batteryStatus() string {
	pct, charging, err := r.batteries()
	if err != nil {
		return "No battery detected."
	}
	if charging {
		return fmt.Sprintf("Battery is at %d percent and charging.", int(math.Round(pct)))
	}
	return fmt.Sprintf("Battery is at %d percent.", int(math.Round(pct)))
}

func (r *Reporter) networkStatus(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.probeURL, nil)
	if err != nil {
		return "The network is unreachable."
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "The network is unreachable."
	}
	resp.Body.Close()
	return "The network is up."
}

func readCPUPercent(ctx context.Context) (float64, error) {
	// A short sampling window keeps the reply snappy while still measuring
	// real load rather than an instant snapshot.
	readings, err := cpu.PercentWithContext(ctx, 500*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(readings) == 0 {
		return 0, fmt.Errorf("no cpu readings")
	}
	return readings[0], nil
}

func readMemPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

func readBattery() (float64, bool, error) {
	all, err := battery.GetAll()
	if err != nil || len(all) == 0 {
		return 0, false, fmt.Errorf("no battery: %w", err)
	}
	b := all[0]
	if b.Full == 0 {
		return 0, false, fmt.Errorf("battery capacity unknown")
	}
	pct := b.Current / b.Full * 100
	return pct, b.State.Raw == battery.Charging, nil
}
