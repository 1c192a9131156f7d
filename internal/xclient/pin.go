package xclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shredder/internal/metrics"
)

// RequestToken is the temporary credential of the PIN handshake.
type RequestToken struct {
	Token  string
	Secret string
}

// RequestPINToken starts out-of-band (PIN) authorization with consumer
// credentials only.
func (c *V1Client) RequestPINToken(ctx context.Context) (RequestToken, error) {
	var rt RequestToken
	err := c.handshake(ctx, "oauth/request_token", func() error {
		var err error
		rt.Token, rt.Secret, err = c.oauth.RequestToken()
		return err
	})
	if err != nil {
		return RequestToken{}, err
	}
	return rt, nil
}

// AuthorizeURL is where the user obtains the PIN.
func (c *V1Client) AuthorizeURL(rt RequestToken) (string, error) {
	u, err := c.oauth.AuthorizationURL(rt.Token)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ExchangePIN trades the PIN for long-lived access credentials.
func (c *V1Client) ExchangePIN(ctx context.Context, rt RequestToken, pin string) (Credentials, error) {
	if pin == "" {
		return Credentials{}, errors.New("empty PIN")
	}
	out := Credentials{ConsumerKey: c.Creds.ConsumerKey, ConsumerSecret: c.Creds.ConsumerSecret}
	err := c.handshake(ctx, "oauth/access_token", func() error {
		var err error
		out.AccessToken, out.AccessSecret, err = c.oauth.AccessToken(rt.Token, rt.Secret, pin)
		return err
	})
	if err != nil {
		return Credentials{}, err
	}
	if out.AccessToken == "" || out.AccessSecret == "" {
		return Credentials{}, errors.New("access token response missing credentials")
	}
	return out, nil
}

// handshake paces and meters one token-endpoint call. The token calls are
// single attempts: a request token is only good once.
func (c *V1Client) handshake(ctx context.Context, endpoint string, fn func() error) error {
	if err := c.Base.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := fn(); err != nil {
		metrics.ObserveAPIRequest(endpoint, 0)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	metrics.ObserveAPIRequest(endpoint, http.StatusOK)
	return nil
}
