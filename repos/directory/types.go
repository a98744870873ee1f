package directory

// Member is one entry in the team's member directory. Role and PushToken
// live in the auth user's custom claims; PushToken is empty for members
// who never registered a device.
type Member struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	Role           int64  `json:"role"`
	PushToken      string `json:"pushToken,omitempty"`
	CreationTime   string `json:"creationTime,omitempty"`
	LastSignInTime string `json:"lastSignInTime,omitempty"`
}

// NewMemberRequest carries the fields needed to create a directory entry.
type NewMemberRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        int64  `json:"role"`
	PushToken   string `json:"pushToken"`
}
