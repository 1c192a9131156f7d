package xclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
)

func TestOAuth1SigningAddsHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("missing OAuth Authorization header, got %q", auth)
		}
		for _, k := range []string{`oauth_consumer_key="ck"`, `oauth_token="at"`, `oauth_signature_method="HMAC-SHA1"`, "oauth_signature="} {
			if !strings.Contains(auth, k) {
				t.Errorf("header lacks %s: %s", k, auth)
			}
		}
		if r.URL.Query().Get("skip_status") != "true" {
			t.Errorf("query lost: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"screen_name":"me","statuses_count":3}`))
	}))
	defer ts.Close()

	v1 := NewV1Client(newTestClient(ts), Credentials{"ck", "cs", "at", "as"})
	id, err := v1.VerifyCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id.ScreenName != "me" || id.PostCount != 3 {
		t.Fatalf("identity %+v", id)
	}
}

var nonceRE = regexp.MustCompile(`oauth_nonce="([^"]+)"`)

func TestRetriedRequestsAreSignedAgain(t *testing.T) {
	var nonces []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := nonceRE.FindStringSubmatch(r.Header.Get("Authorization"))
		if m == nil {
			t.Errorf("attempt %d unsigned", len(nonces)+1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		nonces = append(nonces, m[1])
		if len(nonces) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"created_at":"Wed Jan 01 10:00:00 +0000 2020","full_text":"x"}`))
	}))
	defer ts.Close()

	v1 := NewV1Client(newTestClient(ts), Credentials{"ck", "cs", "at", "as"})
	if _, err := v1.GetPost(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if len(nonces) != 2 || nonces[0] == nonces[1] {
		t.Fatalf("expected two attempts with distinct nonces, got %v", nonces)
	}
}
