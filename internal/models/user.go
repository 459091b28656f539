package models

// UserAccount is one linked mailbox account on an identity.
type UserAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photoURL"`
	IsProUser bool   `json:"isProUser"`
}

// User represents the signed-in identity. The fields mirror whichever linked
// account is currently active; the controller only ever reads Email as the
// "from" address on send.
type User struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	Name            string        `json:"name"`
	PhotoURL        string        `json:"photoURL"`
	IsProUser       bool          `json:"isProUser"`
	Accounts        []UserAccount `json:"accounts"`
	ActiveAccountID string        `json:"activeAccountId,omitempty"`
}

// TeamMember is a collaborator invited to share the inbox.
type TeamMember struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is returned by the sign-in and sign-up endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CountsResponse bundles the derived mailbox views the sidebar renders.
type CountsResponse struct {
	Folders map[Folder]int `json:"folders"`
	Moods   map[Mood]int   `json:"moods"`
	Starred int            `json:"starred"`
}

// MessagesResponse is the filtered message list for a selector and query.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}
