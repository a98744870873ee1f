package matchstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"yes", StatusYes},
		{"No", StatusNo},
		{"snoozed", StatusSnoozed},
		{"not_responded", StatusNotResponded},
		{"notResponded", StatusNotResponded},
		// Legacy bit-flag encoding still sent by older clients.
		{"1", StatusYes},
		{"2", StatusNo},
		{"8", StatusSnoozed},
		{"4", StatusNotResponded},
	}

	for _, c := range cases {
		got, err := ParseStatus(c.in)
		require.NoError(t, err, "ParseStatus(%q)", c.in)
		assert.Equal(t, c.want, got, "ParseStatus(%q)", c.in)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "maybe", "3", "12"} {
		_, err := ParseStatus(in)
		assert.Error(t, err, "ParseStatus(%q)", in)
	}
}

func TestMatchIDDeterministic(t *testing.T) {
	a := MatchID("2024-05-11", "14:30", "Old Boys FC")
	b := MatchID("2024-05-11", "14:30", "Old Boys FC")
	assert.Equal(t, a, b)
	assert.Equal(t, "2024-05-11-14-30-old-boys-fc", a)

	c := MatchID("2024-05-11", "14:30", "Rovers")
	assert.NotEqual(t, a, c, "different opponents are different fixtures")
}

func TestParseMatchDate(t *testing.T) {
	got, err := ParseMatchDate("2024-05-11", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 11, 14, 30, 0, 0, time.UTC), got)

	_, err = ParseMatchDate("next saturday", "14:30")
	assert.Error(t, err)
}

func TestMemberStatusDefaultsToNotResponded(t *testing.T) {
	match := Match{Squad: map[string]AttendanceRecord{
		"alice": {Status: StatusYes},
	}}

	assert.Equal(t, StatusYes, match.MemberStatus("alice"))
	assert.Equal(t, StatusNotResponded, match.MemberStatus("bob"))
}
