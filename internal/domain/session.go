package domain

// Session is the authenticated caller as established by the external
// authentication service.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
