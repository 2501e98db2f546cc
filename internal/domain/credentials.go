package domain

import "strings"

// Credentials are the three values needed for one pipeline run.
type Credentials struct {
	Username     string
	Password     string
	SubscriberID string
}

// Complete reports whether every field is non-empty after trimming spaces.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Username) != "" &&
		c.Password != "" &&
		strings.TrimSpace(c.SubscriberID) != ""
}

// Session is the bearer token obtained from login. It lives for one run only.
type Session struct {
	AccessToken string
}
