package xclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPINHandshake(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/oauth/request_token":
			if r.Method != http.MethodPost || !strings.Contains(auth, `oauth_callback="oob"`) || !strings.Contains(auth, `oauth_consumer_key="ck"`) {
				t.Errorf("bad request_token header: %s", auth)
			}
			_, _ = w.Write([]byte("oauth_token=rt&oauth_token_secret=rs&oauth_callback_confirmed=true"))
		case "/oauth/access_token":
			if !strings.Contains(auth, `oauth_verifier="1234567"`) || !strings.Contains(auth, `oauth_token="rt"`) {
				t.Errorf("bad access_token header: %s", auth)
			}
			_, _ = w.Write([]byte("oauth_token=at&oauth_token_secret=as&user_id=5&screen_name=me"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	v1 := NewV1Client(newTestClient(ts), Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"})
	ctx := context.Background()
	rt, err := v1.RequestPINToken(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got, err := v1.AuthorizeURL(rt)
	if err != nil || got != ts.URL+"/oauth/authorize?oauth_token=rt" {
		t.Fatalf("authorize url: %s %v", got, err)
	}
	creds, err := v1.ExchangePIN(ctx, rt, "1234567")
	if err != nil {
		t.Fatal(err)
	}
	if creds != (Credentials{"ck", "cs", "at", "as"}) {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestRequestPINTokenRequiresCallbackConfirmation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("oauth_token=rt&oauth_token_secret=rs"))
	}))
	defer ts.Close()

	v1 := NewV1Client(newTestClient(ts), Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"})
	if _, err := v1.RequestPINToken(context.Background()); err == nil {
		t.Fatal("expected error without oauth_callback_confirmed")
	}
}

func TestExchangePINRejectsEmptyPIN(t *testing.T) {
	v1 := NewV1Client(NewHTTPClient(Options{}), Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"})
	if _, err := v1.ExchangePIN(context.Background(), RequestToken{Token: "rt"}, ""); err == nil {
		t.Fatalf("expected error for empty PIN")
	}
}
