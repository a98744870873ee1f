package home

import (
	"time"

	"github.com/camels-app/availability-sync/repos/matchstore"
)

// MatchView is a match projected for one member: descriptive fields plus
// that member's own status, never the raw squad map.
type MatchView struct {
	ID        string            `json:"id"`
	Venue     string            `json:"venue"`
	Address   string            `json:"address"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Opponent  string            `json:"opponent"`
	Status    string            `json:"status"`
	MatchDate time.Time         `json:"matchDate"`
	MyStatus  matchstore.Status `json:"myStatus"`
}

func viewFor(match matchstore.Match, memberID string) MatchView {
	return MatchView{
		ID:        match.ID,
		Venue:     match.Venue,
		Address:   match.Address,
		Date:      match.Date,
		Time:      match.Time,
		Opponent:  match.Opponent,
		Status:    match.Status,
		MatchDate: match.MatchDate,
		MyStatus:  match.MemberStatus(memberID),
	}
}
