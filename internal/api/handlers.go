package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/timeline"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/workload"
)

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Started       string `json:"started,omitempty"`
}

type scheduleRequest struct {
	Processes []sjf.Process `json:"processes"`
}

type timelineResponse struct {
	Steps   []timeline.Step `json:"steps"`
	Metrics sjf.Metrics     `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  string(s.Status()),
		Version: Version,
	}
	if started := s.started(); !started.IsZero() {
		resp.UptimeSeconds = int64(s.clock().Sub(started) / time.Second)
		resp.Started = humanize.RelTime(started, s.clock(), "ago", "from now")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuiltin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workload.Builtin())
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	sched, err := sjf.Run(req.Processes)
	if err != nil {
		s.writeScheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	tl, err := timeline.Compute(req.Processes)
	if err != nil {
		s.writeScheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{Steps: tl.Steps, Metrics: tl.Schedule.Metrics})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (scheduleRequest, bool) {
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return scheduleRequest{}, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return scheduleRequest{}, false
	}
	var req scheduleRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return scheduleRequest{}, false
	}
	if len(req.Processes) > s.settings.MaxProcesses {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("at most %d processes per request", s.settings.MaxProcesses),
		})
		return scheduleRequest{}, false
	}
	return req, true
}

func (s *Server) writeScheduleError(w http.ResponseWriter, err error) {
	if errors.Is(err, sjf.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("schedule failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "scheduling failed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
