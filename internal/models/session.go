package models

import "time"

// Session identifies the currently authenticated username. Exactly one
// session exists at a time; it lives in the singleton "currentUser" slot.
type Session struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}

// Age returns how long ago the session was created.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.LoginTime)
}
