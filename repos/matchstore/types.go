package matchstore

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Status is a member's single current response state for one match. The
// wire history of this field is a bit-flag int (yes=1, no=2, snoozed=8,
// notResponded=4) that was never combined, so it is modelled as a closed
// enum and the flag digits are accepted only on parse.
type Status string

const (
	StatusYes          Status = "yes"
	StatusNo           Status = "no"
	StatusSnoozed      Status = "snoozed"
	StatusNotResponded Status = "not_responded"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusYes, StatusNo, StatusSnoozed, StatusNotResponded:
		return true
	}
	return false
}

// ParseStatus accepts the enum names and the legacy flag digits.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusYes), "1":
		return StatusYes, nil
	case string(StatusNo), "2":
		return StatusNo, nil
	case string(StatusSnoozed), "8":
		return StatusSnoozed, nil
	case string(StatusNotResponded), "notresponded", "4":
		return StatusNotResponded, nil
	}
	return "", fmt.Errorf("unknown attendance status %q", raw)
}

// AttendanceRecord is one roster member's entry in a match squad.
type AttendanceRecord struct {
	PushToken   string `firestore:"pushToken" json:"pushToken"`
	DisplayName string `firestore:"displayName" json:"displayName"`
	Status      Status `firestore:"status" json:"status"`
}

// Match is one scheduled fixture with its per-member attendance map.
// CreatedTime and UpdatedTime are set by the store, never by callers.
type Match struct {
	ID          string                      `firestore:"id" json:"id"`
	Venue       string                      `firestore:"venue" json:"venue"`
	Address     string                      `firestore:"address" json:"address"`
	Date        string                      `firestore:"date" json:"date"`
	Time        string                      `firestore:"time" json:"time"`
	Opponent    string                      `firestore:"opponent" json:"opponent"`
	Status      string                      `firestore:"status" json:"status"`
	MatchDate   time.Time                   `firestore:"matchDate" json:"matchDate"`
	CreatedTime time.Time                   `firestore:"createdTime" json:"createdTime"`
	UpdatedTime time.Time                   `firestore:"updatedTime" json:"updatedTime"`
	Squad       map[string]AttendanceRecord `firestore:"squad" json:"squad"`
}

// MemberStatus returns the member's recorded status, defaulting to
// not responded when the member has no squad entry.
func (m Match) MemberStatus(memberID string) Status {
	if record, ok := m.Squad[memberID]; ok && record.Status.Valid() {
		return record.Status
	}
	return StatusNotResponded
}

// MatchPatch carries a partial descriptive-field update. Nil fields are
// left untouched. Squad, when non-nil, replaces the whole attendance map.
type MatchPatch struct {
	Venue    *string
	Address  *string
	Date     *string
	Time     *string
	Opponent *string
	Status   *string

	MatchDate *time.Time
	Squad     map[string]AttendanceRecord
}

// MatchID derives the document id from the fixture's scheduling identity.
// The same date, kickoff time and opponent always map to the same id, so
// re-creating an identical fixture overwrites rather than duplicates.
func MatchID(date, kickoff, opponent string) string {
	return fmt.Sprintf("%s-%s-%s", slugify(date), slugify(kickoff), slugify(opponent))
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ParseMatchDate combines the date ("2006-01-02") and kickoff ("15:04")
// fields into the comparable scheduling key.
func ParseMatchDate(date, kickoff string) (time.Time, error) {
	if kickoff == "" {
		kickoff = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", date, kickoff))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable match date %q %q: %w", date, kickoff, err)
	}
	return t, nil
}
