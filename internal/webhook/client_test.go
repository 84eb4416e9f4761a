package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestAnalyzeSendsSingleElementArray(t *testing.T) {
	var gotBody []RepoData
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body is not a JSON array: %v", err)
		}
		w.Write([]byte(`[{"candidates":[{"content":{"parts":[{"text":"hello"}]}}],"modelVersion":"gemini-2.0"}]`))
	})

	resp, err := client.Analyze(context.Background(), RepoData{RepoOwner: "octocat", Branch: "main", RepoName: "hello-world"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(gotBody) != 1 || gotBody[0].RepoOwner != "octocat" || gotBody[0].RepoName != "hello-world" || gotBody[0].Branch != "main" {
		t.Fatalf("unexpected request payload: %#v", gotBody)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].Content.Parts[0].Text != "hello" {
		t.Fatalf("unexpected envelope: %#v", resp)
	}
	if resp.ModelVersion != "gemini-2.0" {
		t.Fatalf("passthrough metadata lost: %#v", resp)
	}
}

func TestAnalyzeClassifiesStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"not found", http.StatusNotFound, KindEndpointNotFound},
		{"rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"server error", http.StatusInternalServerError, KindServerError},
		{"bad gateway", http.StatusBadGateway, KindServerError},
		{"teapot", http.StatusTeapot, KindBadStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := client.Analyze(context.Background(), RepoData{RepoOwner: "o", Branch: "main", RepoName: "r"})
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("expected a webhook error, got %v", err)
			}
			if kind != tc.want {
				t.Fatalf("kind = %s, want %s", kind, tc.want)
			}
		})
	}
}

func TestAnalyzeRejectsEmptyOrNonArrayBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"empty array", "[]"},
		{"object body", `{"candidates":[]}`},
		{"html error page", "<html>oops</html>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			_, err := client.Analyze(context.Background(), RepoData{RepoOwner: "o", Branch: "main", RepoName: "r"})
			kind, ok := KindOf(err)
			if !ok || kind != KindEmptyResponse {
				t.Fatalf("expected %s, got %v", KindEmptyResponse, err)
			}
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"candidates":[]}]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Analyze(ctx, RepoData{RepoOwner: "o", Branch: "main", RepoName: "r"})
	kind, ok := KindOf(err)
	if !ok || kind != KindTimeout {
		t.Fatalf("expected %s, got %v", KindTimeout, err)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for blank webhook URL")
	}
}
