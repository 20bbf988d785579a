package domain

import "time"

// Cooldown is the minimum gap between two digests to the same user. It
// tolerates multiple sweep runs per day and DST shifts without double
// delivery within half a day.
const Cooldown = 12 * time.Hour

// lastDigestLayouts are the accepted encodings of last_digest_at: RFC 3339
// and the SQLite CURRENT_TIMESTAMP layout (UTC, no zone designator).
var lastDigestLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// IsSendHour reports whether now falls in the user's delivery hour. The
// comparison is strict equality on the local hour, so a user is eligible
// for exactly one hour-window per local day. An unresolvable time zone
// fails closed.
func IsSendHour(u *User, now time.Time) bool {
	loc, err := LoadZone(u.IANATZ)
	if err != nil {
		return false
	}
	return now.In(loc).Hour() == u.SendHour
}

// NotifiedRecently reports whether the user received a digest within the
// cooldown window. A missing last_digest_at means never notified, and an
// unparsable one is treated the same way: corrupt cooldown state must not
// permanently block a user.
func NotifiedRecently(u *User, now time.Time) bool {
	if u.LastDigestAt == nil || *u.LastDigestAt == "" {
		return false
	}
	last, ok := parseInstant(*u.LastDigestAt)
	if !ok {
		return false
	}
	return now.Sub(last) < Cooldown
}

func parseInstant(s string) (time.Time, bool) {
	for _, layout := range lastDigestLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
