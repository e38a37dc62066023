package ci

import (
	"context"
	"log/slog"
	"sync"
)

// onceWarning logs its message the first time it is triggered
type onceWarning struct {
	once   sync.Once
	logger *slog.Logger
	msg    string
}

func newOnceWarning(logger *slog.Logger, msg string) *onceWarning {
	return &onceWarning{logger: logger, msg: msg}
}

func (w *onceWarning) trigger() {
	w.once.Do(func() { w.logger.Warn(w.msg) })
}

// Provider reads build and deploy status from one CI service.
// A nil Status with a nil error means the provider is not configured.
type Provider interface {
	// Name is the display name of the service
	Name() string
	// BranchStatus returns the latest build of branch
	BranchStatus(ctx context.Context, branch string) (*Status, error)
	// ServerStatus returns the latest deploy to server
	ServerStatus(ctx context.Context, server string) (*Status, error)
	// History returns earlier runs of the same branch or server
	History(ctx context.Context, status *Status) ([]Status, error)
}
