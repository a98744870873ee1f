package timebucket

import (
	"testing"
	"time"
)

func TestID(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 3, 9, 18, 5, 42, 0, time.UTC), "932024185"},
		{time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC), "2311202400"},
	}

	for _, c := range cases {
		if got := ID(c.in); got != c.want {
			t.Errorf("ID(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIDUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2024, 3, 10, 1, 30, 0, 0, loc)
	if got, want := ID(local), ID(local.UTC()); got != want {
		t.Errorf("ID in local zone = %q, want %q", got, want)
	}
}
