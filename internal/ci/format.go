package ci

import (
	"fmt"
	"strings"
	"time"

	"gitstory.dev/gitstory/internal/tui/style"
)

// FormatDuration renders d as hh:mm:ss
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Format renders status as a headline colored by result followed by
// the run, commit and author lines. estimate is only shown while the run
// is in progress.
func Format(status Status, estimate time.Duration, now time.Time) string {
	name := status.EntityName()
	sha := status.ShortSHA()
	elapsed := status.Elapsed(now)

	var headline string
	switch {
	case status.Pending() && status.Building():
		text := fmt.Sprintf("%s #%s building for %s", name, sha, FormatDuration(elapsed))
		if estimate > 0 {
			left := estimate - elapsed
			if left > 0 {
				text += fmt.Sprintf(", about %s left of %s", FormatDuration(left), FormatDuration(estimate))
			} else {
				text += fmt.Sprintf(", over the estimate of %s", FormatDuration(estimate))
			}
		}
		headline = style.ColorYellowBold(text)
	case status.Pending():
		headline = style.ColorYellow(fmt.Sprintf("%s #%s pending at the moment", name, sha))
	case status.Result == ResultPassed:
		headline = style.ColorGreen(fmt.Sprintf("%s #%s passed after %s", name, sha, FormatDuration(elapsed)))
	case status.Result == ResultFailed:
		headline = style.ColorRed(fmt.Sprintf("%s #%s failed after %s", name, sha, FormatDuration(elapsed)))
	default:
		headline = style.ColorBlue(fmt.Sprintf("%s #%s in state %s", name, sha, status.Result))
	}

	source := status.Source
	if source == "" {
		source = "CI"
	}

	var b strings.Builder
	b.WriteString(headline)
	fmt.Fprintf(&b, "\n  %s: %s", source, status.EntityURL())
	fmt.Fprintf(&b, "\n  Commit: %s", status.Commit.URL)
	author := status.Commit.AuthorName
	if status.Commit.AuthorEmail != "" {
		author += " <" + status.Commit.AuthorEmail + ">"
	}
	fmt.Fprintf(&b, "\n  Authored: %s @%s", style.Bold(author), status.Commit.Timestamp)
	return b.String()
}
