package ci

import "time"

// Estimator derives how long a run is expected to take
type Estimator struct {
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

func (e Estimator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Estimate returns the expected total duration of status. An explicit
// estimate wins; otherwise it is the mean duration of the passed runs in
// history, or the run's own elapsed time when none passed.
func (e Estimator) Estimate(status Status, history []Status) time.Duration {
	if status.Estimate > 0 {
		return status.Estimate
	}

	var total time.Duration
	passed := 0
	for _, h := range history {
		if h.Result != ResultPassed || !h.Building() || !h.Finished() {
			continue
		}
		total += h.FinishedAt.Sub(h.StartedAt)
		passed++
	}
	if passed == 0 {
		return status.Elapsed(e.now())
	}
	return total / time.Duration(passed)
}
