package xclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"

	"shredder/internal/metrics"
	"shredder/internal/model"
)

// Credentials are the four OAuth 1.0a user-context strings.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// V1Client talks to the X API v1.1 via OAuth 1.0a.
type V1Client struct {
	Base  *HTTPClient
	Creds Credentials

	oauth  *oauth1.Config
	signed *HTTPClient
}

// NewV1Client signs every request with creds. Signing happens below the
// retry loop, so each attempt carries a fresh nonce and timestamp.
func NewV1Client(base *HTTPClient, creds Credentials) *V1Client {
	cfg := &oauth1.Config{
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
		CallbackURL:    "oob",
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: base.baseURL + "/oauth/request_token",
			AuthorizeURL:    base.baseURL + "/oauth/authorize",
			AccessTokenURL:  base.baseURL + "/oauth/access_token",
		},
	}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base.httpClient)
	hc := cfg.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
	hc.Timeout = base.httpClient.Timeout
	return &V1Client{Base: base, Creds: creds, oauth: cfg, signed: base.withClient(hc)}
}

// VerifyCredentials returns the identity behind the access token.
func (c *V1Client) VerifyCredentials(ctx context.Context) (model.Identity, error) {
	var raw struct {
		ID            int64  `json:"id"`
		ScreenName    string `json:"screen_name"`
		StatusesCount int    `json:"statuses_count"`
	}
	params := url.Values{"skip_status": {"true"}, "include_entities": {"false"}}
	if err := c.call(ctx, http.MethodGet, "/1.1/account/verify_credentials.json", "account/verify_credentials", params, &raw); err != nil {
		return model.Identity{}, err
	}
	return model.Identity{ID: raw.ID, ScreenName: raw.ScreenName, PostCount: raw.StatusesCount}, nil
}

// UserTimelinePage returns one page of the user's own timeline, newest first.
// maxID <= 0 starts from the newest post.
func (c *V1Client) UserTimelinePage(ctx context.Context, userID int64, maxID int64, count int) ([]model.Post, error) {
	params := url.Values{
		"user_id":         {strconv.FormatInt(userID, 10)},
		"count":           {strconv.Itoa(clamp(count, 1, 200))},
		"include_rts":     {"true"},
		"exclude_replies": {"false"},
		"tweet_mode":      {"extended"},
	}
	if maxID > 0 {
		params.Set("max_id", strconv.FormatInt(maxID, 10))
	}
	var raw []rawTweet
	if err := c.call(ctx, http.MethodGet, "/1.1/statuses/user_timeline.json", "statuses/user_timeline", params, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Post, 0, len(raw))
	for _, t := range raw {
		p, err := t.toPost()
		if err != nil {
			return nil, fmt.Errorf("statuses/user_timeline: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// GetPost loads a single post by ID.
func (c *V1Client) GetPost(ctx context.Context, id int64) (model.Post, error) {
	params := url.Values{
		"id":         {strconv.FormatInt(id, 10)},
		"tweet_mode": {"extended"},
	}
	var raw rawTweet
	if err := c.call(ctx, http.MethodGet, "/1.1/statuses/show.json", "statuses/show", params, &raw); err != nil {
		return model.Post{}, err
	}
	p, err := raw.toPost()
	if err != nil {
		return model.Post{}, fmt.Errorf("statuses/show: %w", err)
	}
	return p, nil
}

// DeletePost destroys an original post.
func (c *V1Client) DeletePost(ctx context.Context, p model.Post) error {
	path := fmt.Sprintf("/1.1/statuses/destroy/%d.json", p.ID)
	return c.call(ctx, http.MethodPost, path, "statuses/destroy", nil, nil)
}

// UndoReshare removes a reshare. The endpoint wants the original post's ID.
func (c *V1Client) UndoReshare(ctx context.Context, p model.Post) error {
	id := p.ResharedID
	if id == 0 {
		id = p.ID
	}
	path := fmt.Sprintf("/1.1/statuses/unretweet/%d.json", id)
	return c.call(ctx, http.MethodPost, path, "statuses/unretweet", nil, nil)
}

type rawTweet struct {
	ID              int64  `json:"id"`
	CreatedAt       string `json:"created_at"`
	FullText        string `json:"full_text"`
	Text            string `json:"text"`
	RetweetedStatus *struct {
		ID int64 `json:"id"`
	} `json:"retweeted_status"`
	Entities struct {
		Media []json.RawMessage `json:"media"`
	} `json:"entities"`
	ExtendedEntities struct {
		Media []json.RawMessage `json:"media"`
	} `json:"extended_entities"`
}

// toPost fails on a created_at it cannot read. A zero time would sort
// before every cutoff and make the post deletable.
func (t rawTweet) toPost() (model.Post, error) {
	// Parse example: Mon Jan 02 15:04:05 -0700 2006
	ts, err := time.Parse(time.RubyDate, t.CreatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("post %d: parse created_at %q: %w", t.ID, t.CreatedAt, err)
	}
	text := t.FullText
	if text == "" {
		text = t.Text
	}
	p := model.Post{
		ID:        t.ID,
		CreatedAt: ts.Local(),
		Text:      text,
		HasMedia:  len(t.Entities.Media) > 0 || len(t.ExtendedEntities.Media) > 0,
	}
	if t.RetweetedStatus != nil {
		p.IsReshare = true
		p.ResharedID = t.RetweetedStatus.ID
	}
	return p, nil
}

// call sends one signed request. Params travel in the query string for
// every method; out may be nil to discard the body.
func (c *V1Client) call(ctx context.Context, method, path, endpoint string, params url.Values, out any) error {
	resp, err := c.send(ctx, method, path, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// send returns a 2xx response or an error; non-2xx bodies become *APIError.
func (c *V1Client) send(ctx context.Context, method, path, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := c.signed.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.signed.doWithRetry(ctx, req, endpoint)
	if err != nil {
		metrics.ObserveAPIRequest(endpoint, 0)
		return nil, err
	}
	metrics.ObserveAPIRequest(endpoint, resp.StatusCode)
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseAPIError(resp, endpoint)
	}
	return resp, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
