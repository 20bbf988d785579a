package domain

import "fmt"

const (
	// MaxMessageLen is the single-segment SMS budget.
	MaxMessageLen = 160

	// messageSuffix closes every digest.
	messageSuffix = "\nhttps://hbd.bot"
)

// ComposeDigest renders urgency-sorted candidates into a single SMS body.
// Packing is a greedy single pass: each candidate line is appended while the
// body plus suffix stays within budget. When exactly two candidates remain,
// a one-step lookahead checks whether both fit before falling back to the
// overflow marker; when more than one candidate is cut, an honest
// "+ K more..." marker is appended if it fits. A single cut candidate is
// dropped silently (the marker would cost more than the line it replaces).
// The result never exceeds MaxMessageLen and always ends with the suffix.
func ComposeDigest(candidates []Candidate) string {
	var body string
	included := 0

	for i, c := range candidates {
		next := candidateLine(c)
		if body != "" {
			next = body + "\n" + next
		}

		if len(next)+len(messageSuffix) > MaxMessageLen {
			break
		}
		remaining := len(candidates) - i - 1

		if remaining == 0 {
			body = next
			included++
			break
		}
		if remaining == 1 {
			withNext := next + "\n" + candidateLine(candidates[i+1]) + messageSuffix
			if len(withNext) <= MaxMessageLen {
				body = next
				included++
				continue
			}
		}
		if remaining > 1 {
			if len(next)+len(overflowMarker(remaining)) <= MaxMessageLen {
				body = next
				included++
				break
			}
		}
		body = next
		included++
	}

	if remaining := len(candidates) - included; remaining > 1 {
		withMore := body + overflowMarker(remaining)
		if len(withMore) <= MaxMessageLen {
			return withMore
		}
	}
	return body + messageSuffix
}

func candidateLine(c Candidate) string {
	return fmt.Sprintf("%s's %s is %s", c.Name, ordinal(c.AgeTurning), relativeDay(c.DaysUntil))
}

func relativeDay(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func overflowMarker(n int) string {
	return fmt.Sprintf("\n+ %d more...%s", n, messageSuffix)
}

// ordinal formats n with its English ordinal suffix (1st, 2nd, 3rd, 4th...),
// with 11th-13th mapped to "th".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
