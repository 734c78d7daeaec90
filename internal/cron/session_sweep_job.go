package cron

import (
	"context"
	"fmt"

	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/metrics"
)

type sessionRegistry interface {
	Sweep() int
	Len() int
}

// SessionSweepJobParams configure the session sweep job.
type SessionSweepJobParams struct {
	Logger   *logger.Logger
	Registry sessionRegistry
	Metrics  *metrics.SessionMetrics
}

// NewSessionSweepJob builds the job that evicts signed-out session managers
// from the in-memory registry.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry required")
	}
	return &sessionSweepJob{
		logg:     params.Logger,
		registry: params.Registry,
		metrics:  params.Metrics,
	}, nil
}

type sessionSweepJob struct {
	logg     *logger.Logger
	registry sessionRegistry
	metrics  *metrics.SessionMetrics
}

func (j *sessionSweepJob) Name() string { return "session-sweep" }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	removed := j.registry.Sweep()
	remaining := j.registry.Len()
	j.metrics.SetActiveSessions(remaining)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"sessions_removed":   removed,
		"sessions_remaining": remaining,
	})
	j.logg.Info(logCtx, "session sweep complete")
	return nil
}
