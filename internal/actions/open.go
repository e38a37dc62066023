package actions

import (
	"fmt"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tracker"
	"gitstory.dev/gitstory/internal/utils"
)

// Open targets
const (
	OpenTracker = "tracker"
	OpenCI      = "ci"
	OpenCommit  = "commit"
	OpenBranch  = "branch"
)

// OpenTargets lists what the open command accepts
var OpenTargets = []string{OpenTracker, OpenCI, OpenCommit, OpenBranch}

// OpenOptions specifies options for the open command
type OpenOptions struct {
	Target string // Defaults to OpenTracker
	Print  bool   // Print the URL instead of opening it
	// Open opens a URL; defaults to utils.OpenBrowser
	Open func(url string) error
}

// OpenAction opens a URL related to the checked out story
func OpenAction(ctx *runtime.Context, opts OpenOptions) error {
	branch, current, err := currentStory(ctx)
	if err != nil {
		return err
	}

	target := opts.Target
	if target == "" {
		target = OpenTracker
	}

	var url string
	switch target {
	case OpenTracker:
		id, err := storyIDOf(branch)
		if err != nil {
			return err
		}
		url = tracker.StoryURL(id)
	case OpenCI:
		status, err := ctx.CI.BranchStatus(runContext(ctx), current)
		if err != nil {
			return err
		}
		if status == nil || status.EntityURL() == "" {
			return storyerrors.NewUserInputError("no %s build found for %s", ctx.CI.Name(), current)
		}
		url = status.EntityURL()
	case OpenCommit, OpenBranch:
		remote, err := remoteInfo(ctx)
		if err != nil {
			return err
		}
		if target == OpenBranch {
			url = remote.BranchURL(current)
			break
		}
		sha, err := ctx.Session.Runner().Run(runContext(ctx), "rev-parse", "HEAD")
		if err != nil {
			return err
		}
		url = remote.CommitURL(sha)
	default:
		return storyerrors.NewUserInputError("unknown open target %q, use one of %v", target, OpenTargets)
	}

	if opts.Print {
		ctx.Splog.Info("%s", url)
		return nil
	}
	open := opts.Open
	if open == nil {
		open = utils.OpenBrowser
	}
	ctx.Splog.Debug("Opening %s", url)
	return open(url)
}

func remoteInfo(ctx *runtime.Context) (*utils.RemoteInfo, error) {
	remoteURL, err := ctx.Session.RemoteURL(runContext(ctx))
	if err != nil {
		return nil, err
	}
	info, err := utils.ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("cannot derive a web URL from remote %s: %w", ctx.Session.Remote(), err)
	}
	return info, nil
}
