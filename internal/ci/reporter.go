package ci

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Reporter fetches a status with its history and renders it
type Reporter struct {
	provider  Provider
	estimator Estimator
	logger    *slog.Logger
}

// NewReporter creates a Reporter
func NewReporter(provider Provider, estimator Estimator, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{provider: provider, estimator: estimator, logger: logger}
}

// Branch renders the latest build of branch
func (r *Reporter) Branch(ctx context.Context, branch string) (string, error) {
	status, err := r.provider.BranchStatus(ctx, branch)
	if err != nil {
		return "", err
	}
	if status == nil {
		return fmt.Sprintf("%s: no %s build status available", branch, r.provider.Name()), nil
	}
	return r.render(ctx, status), nil
}

// Server renders the latest deploy to server
func (r *Reporter) Server(ctx context.Context, server string) (string, error) {
	status, err := r.provider.ServerStatus(ctx, server)
	if err != nil {
		return "", err
	}
	if status == nil {
		return fmt.Sprintf("%s: no %s deploy status available", server, r.provider.Name()), nil
	}
	return r.render(ctx, status), nil
}

func (r *Reporter) render(ctx context.Context, status *Status) string {
	var estimate time.Duration
	if status.Pending() && status.Building() {
		history, err := r.provider.History(ctx, status)
		if err != nil {
			r.logger.Debug("history unavailable, estimating from the run itself", "error", err)
		}
		estimate = r.estimator.Estimate(*status, history)
	}
	return Format(*status, estimate, r.estimator.now())
}
