package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/anomredux/slt-usage/internal/domain"
)

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	ErrorMessage string `json:"errorMessage"`
}

// Authenticate exchanges username and password for a bearer token. A login
// rejected by the backend clears stored credentials and fails with
// *domain.AuthError.
func (c *Client) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	form := url.Values{
		"username":  {username},
		"password":  {password},
		"channelID": {c.ep.ChannelID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ep.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.do(req)
	if err != nil {
		return domain.Session{}, &domain.NetworkError{Op: "login request", Err: err}
	}
	c.log.WithField("status", status).Debug("login response")

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Session{}, &domain.BackendError{Status: status, Message: "login response is not JSON"}
	}
	if out.ErrorMessage != "" {
		return domain.Session{}, c.reject(&domain.AuthError{Message: out.ErrorMessage})
	}
	if out.AccessToken == "" {
		return domain.Session{}, &domain.BackendError{Status: status, Message: "login response has no access token"}
	}
	return domain.Session{AccessToken: out.AccessToken}, nil
}
