package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

type statsResponse struct {
	Analysis   pipeline.StatsSnapshot `json:"analysis"`
	QueueDepth int                    `json:"queue_depth"`
	Jobs       int                    `json:"jobs"`
	Workers    int                    `json:"workers"`
	Thresholds engine.Config          `json:"thresholds"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResponse{
		Analysis:   s.orchestrator.Worker().Stats().Snapshot(),
		QueueDepth: s.orchestrator.QueueDepth(),
		Jobs:       s.orchestrator.JobCount(),
		Workers:    s.cfg.WorkerCount,
		Thresholds: s.orchestrator.Worker().EngineConfig(),
	})
}
