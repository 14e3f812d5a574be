package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/input"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/report"
	"codeberg.org/mutker/biofeedback/internal/session"
	"codeberg.org/mutker/biofeedback/internal/signal"
	"codeberg.org/mutker/biofeedback/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BIOFEEDBACK_CONFIG", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestComputeJSON(t *testing.T) {
	out, err := run(t, "", "compute", "-i", "testdata/session.yaml", "-o", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.HRV)
	assert.InDelta(t, 16.77, r.HRV.RMSSD, 0.01)
	require.NotNil(t, r.Facial)
	assert.Equal(t, 2, r.FacialSamples)
	assert.Nil(t, r.RespiratoryRate)
}

func TestComputeFromStdin(t *testing.T) {
	out, err := run(t, `{"rr_intervals": [800, 900]}`, "compute", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "100.00 ms")
	assert.Contains(t, out, "Unavailable")
}

func TestComputeMissingFile(t *testing.T) {
	_, err := run(t, "", "compute", "-i", "testdata/missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadInput))
}

func TestInvalidFlagValue(t *testing.T) {
	_, err := run(t, "", "patterns", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidOutput))
}

func TestSimulate(t *testing.T) {
	save := filepath.Join(t.TempDir(), "session.yaml")
	out, err := run(t, "", "simulate", "--pattern", "box", "--duration", "120", "--save", save, "-o", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.RespiratoryRate)
	assert.InDelta(t, 3.75, *r.RespiratoryRate, 0.1)
	require.NotNil(t, r.HRV)
	assert.Greater(t, r.HRV.RMSSD, 0.0)
	assert.Equal(t, 100, r.FacialSamples)
	assert.Empty(t, r.Issues)

	rec, err := input.Load(save)
	require.NoError(t, err)
	assert.Len(t, rec.Waveform, 3600)
	assert.Equal(t, 30.0, rec.SamplingRate)
}

func TestSimulateRejectsUnknownPattern(t *testing.T) {
	_, err := run(t, "", "simulate", "--pattern", "holotropic")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestSimulationRecording(t *testing.T) {
	sim := simulation{pattern: "ocean", duration: 60, heartRate: 60, rsa: 20, tension: 0.5}
	rec, err := sim.recording(10)
	require.NoError(t, err)

	assert.Len(t, rec.Waveform, 600)
	assert.Len(t, rec.Facial, 600)
	assert.InDelta(t, 60, len(rec.RRIntervals), 2)

	_, err = simulation{pattern: "box", duration: 0, heartRate: 60}.recording(10)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestSimulationRejectsHeartRateOutOfRange(t *testing.T) {
	for _, hr := range []float64{0, 19.9, 250.1, 1e12, math.NaN(), math.Inf(1)} {
		_, err := simulation{pattern: "box", duration: 60, heartRate: hr}.recording(30)
		require.Error(t, err, "heart rate %v", hr)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
	}

	for _, hr := range []float64{20, 250} {
		_, err := simulation{pattern: "box", duration: 10, heartRate: hr}.recording(30)
		assert.NoError(t, err, "heart rate %v", hr)
	}

	_, err := run(t, "", "simulate", "--heart-rate", "1e12")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestPatterns(t *testing.T) {
	out, err := run(t, "", "patterns")
	require.NoError(t, err)
	assert.Contains(t, out, "box-breathing")
	assert.Contains(t, out, "3.75 bpm")
	assert.Equal(t, len(signal.Patterns()), strings.Count(out, "\n"))

	out, err = run(t, "", "patterns", "-o", "json")
	require.NoError(t, err)

	var patterns []signal.Pattern
	require.NoError(t, json.Unmarshal([]byte(out), &patterns))
	assert.Len(t, patterns, 6)
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Second, sweepInterval(time.Nanosecond))
	assert.Equal(t, time.Second, sweepInterval(0))
	assert.Equal(t, 5*time.Minute, sweepInterval(10*time.Minute))
}

func TestExpireSessionsTinyTimeout(t *testing.T) {
	reg, err := session.NewRegistry(30, session.WithLogger(logger.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() { expireSessions(ctx, reg, time.Nanosecond) })
}

func TestHealthHandler(t *testing.T) {
	reg, err := session.NewRegistry(30, session.WithLogger(logger.Nop()))
	require.NoError(t, err)
	reg.Open()
	hub := stream.NewHub(logger.Nop())

	status := "CONNECTED"
	h := healthHandler(reg, hub, func() string { return status })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":1,"clients":0,"nats":"CONNECTED"}`, rec.Body.String())

	status = "RECONNECTING"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}
