package matches

// CreateMatchRequest carries the descriptive fields of a new fixture.
// The squad is never supplied by callers; it is resolved from the member
// directory at creation time.
type CreateMatchRequest struct {
	Venue    string `json:"venue"`
	Address  string `json:"address"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Opponent string `json:"opponent"`
	Status   string `json:"status"`
}

// PatchMatchRequest updates only the fields that are set. RefreshSquad
// rebuilds the attendance map from the current directory and resets
// every response to not responded, so it is opt-in and off by default.
type PatchMatchRequest struct {
	Venue    *string `json:"venue"`
	Address  *string `json:"address"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Opponent *string `json:"opponent"`
	Status   *string `json:"status"`

	RefreshSquad bool `json:"refreshSquad"`
}

// StatusUpdateRequest is one member's answer to a match.
type StatusUpdateRequest struct {
	UID    string `json:"uid"`
	Status string `json:"status"`
}
