package ci

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"gitstory.dev/gitstory/internal/tui/style"
)

// DefaultConcurrency bounds the number of status fetches in flight
const DefaultConcurrency = 8

// FetchFunc renders the status of one story
type FetchFunc func(ctx context.Context, storyID int) (string, error)

// Entry is the rendered status of one story. Text holds the formatted
// error when Err is set.
type Entry struct {
	StoryID int
	Text    string
	Err     error
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithConcurrency sets the maximum number of concurrent fetches
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithProgress registers a callback invoked with the number of completed
// fetches. Calls are serialized and done never decreases.
func WithProgress(fn func(done, total int)) AggregatorOption {
	return func(a *Aggregator) {
		a.onProgress = fn
	}
}

// WithErrorFormatter sets how a failed fetch is rendered
func WithErrorFormatter(fn func(error) string) AggregatorOption {
	return func(a *Aggregator) {
		a.formatError = fn
	}
}

// Aggregator fetches the status of many stories concurrently
type Aggregator struct {
	fetch       FetchFunc
	concurrency int
	onProgress  func(done, total int)
	formatError func(error) string

	done atomic.Int64
	mu   sync.Mutex
}

// NewAggregator creates an Aggregator around fetch
func NewAggregator(fetch FetchFunc, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetch:       fetch,
		concurrency: DefaultConcurrency,
		formatError: style.ColorError,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchAll fetches every distinct id and returns one entry per id in
// ascending id order. A failing fetch only affects its own entry.
func (a *Aggregator) FetchAll(ctx context.Context, ids []int) []Entry {
	ordered := uniqueSorted(ids)
	entries := make([]Entry, len(ordered))
	total := len(ordered)
	if total == 0 {
		return entries
	}

	a.done.Store(0)
	a.report(0, total)

	p := pool.New().WithMaxGoroutines(a.concurrency)
	for i, id := range ordered {
		p.Go(func() {
			text, err := a.safeFetch(ctx, id)
			if err != nil {
				text = a.formatError(err)
			}
			entries[i] = Entry{StoryID: id, Text: text, Err: err}

			a.mu.Lock()
			defer a.mu.Unlock()
			a.report(int(a.done.Add(1)), total)
		})
	}
	p.Wait()
	return entries
}

// Done returns how many fetches of the current batch have completed
func (a *Aggregator) Done() int {
	return int(a.done.Load())
}

func (a *Aggregator) report(done, total int) {
	if a.onProgress != nil {
		a.onProgress(done, total)
	}
}

func (a *Aggregator) safeFetch(ctx context.Context, id int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetching status of story #%d panicked: %v", id, r)
		}
	}()
	return a.fetch(ctx, id)
}

// Texts returns the rendered text of each entry
func Texts(entries []Entry) []string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}

func uniqueSorted(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
