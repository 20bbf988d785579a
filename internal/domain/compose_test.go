package domain

import (
	"fmt"
	"strings"
	"testing"
)

func TestComposeDigest_SingleCandidate(t *testing.T) {
	got := ComposeDigest([]Candidate{{Name: "John", DaysUntil: 0, AgeTurning: 34}})
	want := "John's 34th is today\nhttps://hbd.bot"
	if got != want {
		t.Errorf("ComposeDigest = %q, want %q", got, want)
	}
}

func TestComposeDigest_TwoCandidatesBothFit(t *testing.T) {
	got := ComposeDigest([]Candidate{
		{Name: "John", DaysUntil: 0, AgeTurning: 34},
		{Name: "Jane", DaysUntil: 1, AgeTurning: 33},
	})
	want := "John's 34th is today\nJane's 33rd is tomorrow\nhttps://hbd.bot"
	if got != want {
		t.Errorf("ComposeDigest = %q, want %q", got, want)
	}
}

func TestComposeDigest_SecondCandidateCutSilently(t *testing.T) {
	// The second line cannot fit; a single cut candidate gets no overflow
	// marker since the marker would cost more than the line it replaces.
	long := strings.Repeat("x", 120)
	got := ComposeDigest([]Candidate{
		{Name: "John", DaysUntil: 0, AgeTurning: 34},
		{Name: long, DaysUntil: 1, AgeTurning: 33},
	})
	want := "John's 34th is today\nhttps://hbd.bot"
	if got != want {
		t.Errorf("ComposeDigest = %q, want %q", got, want)
	}
}

func TestComposeDigest_OverflowMarkerPreferredOverThirdLine(t *testing.T) {
	got := ComposeDigest([]Candidate{
		{Name: "John", DaysUntil: 0, AgeTurning: 34},
		{Name: "Jane", DaysUntil: 1, AgeTurning: 33},
		{Name: "Bob", DaysUntil: 3, AgeTurning: 32},
	})
	want := "John's 34th is today\n+ 2 more...\nhttps://hbd.bot"
	if got != want {
		t.Errorf("ComposeDigest = %q, want %q", got, want)
	}
}

func TestComposeDigest_ManyCandidatesTruncated(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, Candidate{
			Name:       fmt.Sprintf("VeryLongNamePersonNumber%d", i),
			DaysUntil:  0,
			AgeTurning: 30 + i,
		})
	}
	got := ComposeDigest(candidates)

	if len(got) > MaxMessageLen {
		t.Errorf("len = %d, want <= %d", len(got), MaxMessageLen)
	}
	if !strings.HasSuffix(got, "\nhttps://hbd.bot") {
		t.Errorf("message does not end with suffix: %q", got)
	}
	if !strings.Contains(got, "+ 9 more...") {
		t.Errorf("message missing honest overflow count: %q", got)
	}
	if lines := strings.Count(got, "\n"); lines >= 10 {
		t.Errorf("too many rendered lines (%d newlines): %q", lines, got)
	}
}

func TestComposeDigest_UrgencyOrderPreserved(t *testing.T) {
	got := ComposeDigest([]Candidate{
		{Name: "Amy", DaysUntil: 0, AgeTurning: 40},
		{Name: "Ben", DaysUntil: 2, AgeTurning: 41},
	})
	if strings.Index(got, "Amy") > strings.Index(got, "Ben") {
		t.Errorf("most urgent candidate not first: %q", got)
	}
	if !strings.Contains(got, "in 2 days") {
		t.Errorf("missing relative day phrase: %q", got)
	}
}

func TestComposeDigest_LengthBudgetNeverExceeded(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for nameLen := 1; nameLen <= 150; nameLen += 17 {
			var candidates []Candidate
			for i := 0; i < n; i++ {
				candidates = append(candidates, Candidate{
					Name:       strings.Repeat("a", nameLen),
					DaysUntil:  i,
					AgeTurning: 20 + i,
				})
			}
			got := ComposeDigest(candidates)
			if len(got) > MaxMessageLen {
				t.Fatalf("n=%d nameLen=%d: len = %d > %d: %q", n, nameLen, len(got), MaxMessageLen, got)
			}
			if !strings.HasSuffix(got, "\nhttps://hbd.bot") {
				t.Fatalf("n=%d nameLen=%d: missing suffix: %q", n, nameLen, got)
			}
		}
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd",
		100: "100th", 101: "101st", 111: "111th",
	}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}
