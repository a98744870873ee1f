package timebucket

import (
	"fmt"
	"time"
)

// ID returns the push-log bucket id for t: day, month, year, hour and
// minute concatenated without padding, in UTC. Two delivery attempts in
// the same minute land in the same bucket and the later one wins.
func ID(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%d%d%d%d%d", u.Day(), int(u.Month()), u.Year(), u.Hour(), u.Minute())
}
