package matches

import (
	"context"

	"github.com/camels-app/availability-sync/repos/matchstore"
)

// resolveSquad builds the initial attendance map from the current member
// directory snapshot: one record per member, status not responded, push
// token copied as registered (possibly empty). A directory failure
// propagates; there is no cached fallback.
func (s *MatchesService) resolveSquad(ctx context.Context) (map[string]matchstore.AttendanceRecord, error) {
	members, err := s.directory.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	squad := make(map[string]matchstore.AttendanceRecord, len(members))
	for _, member := range members {
		squad[member.UID] = matchstore.AttendanceRecord{
			PushToken:   member.PushToken,
			DisplayName: member.DisplayName,
			Status:      matchstore.StatusNotResponded,
		}
	}
	return squad, nil
}

func squadTokens(squad map[string]matchstore.AttendanceRecord) []string {
	tokens := make([]string, 0, len(squad))
	for _, record := range squad {
		tokens = append(tokens, record.PushToken)
	}
	return tokens
}
