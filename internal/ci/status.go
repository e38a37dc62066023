// Package ci fetches build and deploy status from the configured CI service,
// estimates run durations and aggregates status for many stories at once.
package ci

import (
	"strings"
	"time"
)

// Result is the outcome of a CI run
type Result string

const (
	ResultPending  Result = "pending"
	ResultPassed   Result = "passed"
	ResultFailed   Result = "failed"
	ResultCanceled Result = "canceled"
	ResultUnknown  Result = "unknown"
)

// ParseResult maps a service-reported result onto Result. Anything
// unrecognized is ResultUnknown.
func ParseResult(s string) Result {
	switch Result(strings.ToLower(strings.TrimSpace(s))) {
	case ResultPending:
		return ResultPending
	case ResultPassed:
		return ResultPassed
	case ResultFailed:
		return ResultFailed
	case ResultCanceled, "cancelled", "stopped":
		return ResultCanceled
	default:
		return ResultUnknown
	}
}

// Commit is the commit a CI run was triggered for
type Commit struct {
	ID          string
	URL         string
	AuthorName  string
	AuthorEmail string
	Message     string
	Timestamp   string
}

// Status is one build or deploy snapshot. Zero times mean absent.
type Status struct {
	Result     Result
	StartedAt  time.Time
	FinishedAt time.Time

	// BranchName is set for builds, ServerName for deploys.
	BranchName string
	ServerName string
	Commit     Commit

	BuildURL      string
	ServerHTMLURL string
	HistoryURL    string

	// Estimate is an explicit duration estimate reported by the service.
	Estimate time.Duration

	// Source names the service, e.g. "Semaphore".
	Source string
}

// Pending reports whether the run has not produced a result yet
func (s Status) Pending() bool {
	return s.Result == ResultPending
}

// Building reports whether the run has started
func (s Status) Building() bool {
	return !s.StartedAt.IsZero()
}

// Finished reports whether the run has a finish time
func (s Status) Finished() bool {
	return !s.FinishedAt.IsZero()
}

// Elapsed is the run time so far, or the total run time once finished.
// Runs that have not started have zero elapsed time.
func (s Status) Elapsed(now time.Time) time.Duration {
	if !s.Building() {
		return 0
	}
	end := now
	if s.Finished() {
		end = s.FinishedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// ShortSHA returns the first ten characters of the commit id
func (s Status) ShortSHA() string {
	if len(s.Commit.ID) > 10 {
		return s.Commit.ID[:10]
	}
	return s.Commit.ID
}

// EntityName is the server of a deploy or the branch of a build
func (s Status) EntityName() string {
	if s.ServerName != "" {
		return s.ServerName
	}
	return s.BranchName
}

// EntityURL is the web page of the run
func (s Status) EntityURL() string {
	if s.ServerHTMLURL != "" {
		return s.ServerHTMLURL
	}
	return s.BuildURL
}

// parseTime parses the timestamp formats CI services emit. Unparseable or
// empty values are absent.
func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05 -0700", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
