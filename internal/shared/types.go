package shared

// shared types across the application

// Actor is the authenticated identity performing a request.
// A nil *Actor means the request is anonymous.
type Actor struct {
	UserID   string `json:"user_id"`  // user identifier(UUID)
	Username string `json:"username"` // username
}

// ID returns the actor's user id, or "" for an anonymous request.
func (a *Actor) ID() string {
	if a == nil {
		return ""
	}
	return a.UserID
}

// Is reports whether the actor is the user with the given id.
func (a *Actor) Is(userID string) bool {
	return a != nil && a.UserID == userID
}
