package slack

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/anime-digest/internal/adapters/clients"
	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/platform/config"
)

const testToken = "xoxb-test"

// fakeSlack records form posts to the Web API methods it serves.
type fakeSlack struct {
	mu       sync.Mutex
	requests map[string][]map[string]string
	replies  map[string]func(w http.ResponseWriter)
}

func newFakeSlack() *fakeSlack {
	return &fakeSlack{
		requests: map[string][]map[string]string{},
		replies:  map[string]func(w http.ResponseWriter){},
	}
}

func (f *fakeSlack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	method := r.URL.Path[len("/api/"):]
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.requests[method] = append(f.requests[method], form)
	reply := f.replies[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if reply != nil {
		reply(w)
		return
	}

	switch method {
	case "chat.postMessage":
		_, _ = io.WriteString(w, `{"ok":true,"channel":"C0123","ts":"1700000000.000100"}`)
	case "auth.test":
		_, _ = io.WriteString(w, `{"ok":true,"user_id":"U1","team":"anime"}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true}`)
	}
}

func (f *fakeSlack) reply(method, body string, status int, header map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replies[method] = func(w http.ResponseWriter) {
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (f *fakeSlack) calls(method string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.requests[method]
}

func newTestPublisher(t *testing.T, fake *fakeSlack) *Publisher {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "slack",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	})
	require.NoError(t, err)

	return NewPublisher(PublisherConfig{
		Client: client,
		Token:  testToken,
		APIURL: server.URL + "/api",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSanitizeMarker(t *testing.T) {
	tests := []struct {
		marker   domain.MarkerID
		expected string
	}{
		{marker: "crossed_swords", expected: "crossed_swords"},
		{marker: ":star:", expected: "star"},
		{marker: "+1", expected: "1"},
		{marker: "face-palm", expected: "facepalm"},
		{marker: "space ok", expected: "space ok"},
		{marker: "🎬", expected: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.marker), func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeMarker(tt.marker))
		})
	}
}

func TestNewPublisher_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewPublisher(PublisherConfig{Token: testToken})
	})
}

func TestPublisher_PostText(t *testing.T) {
	fake := newFakeSlack()
	pub := newTestPublisher(t, fake)

	ref, err := pub.PostText(context.Background(), "C0123", "*Check out these top airing anime!*")

	require.NoError(t, err)
	assert.Equal(t, domain.MessageRef{Channel: "C0123", Timestamp: "1700000000.000100"}, ref)

	calls := fake.calls("chat.postMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "C0123", calls[0]["channel"])
	assert.Equal(t, "*Check out these top airing anime!*", calls[0]["text"])
	assert.Equal(t, "false", calls[0]["unfurl_links"])
	assert.Equal(t, testToken, calls[0]["token"])
}

func TestPublisher_PostText_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		header   map[string]string
		expected func(error) bool
	}{
		{name: "invalid auth", body: `{"ok":false,"error":"invalid_auth"}`, status: http.StatusOK, expected: domain.IsForbidden},
		{name: "channel not found", body: `{"ok":false,"error":"channel_not_found"}`, status: http.StatusOK, expected: domain.IsNotFound},
		{name: "unknown api error", body: `{"ok":false,"error":"msg_too_long"}`, status: http.StatusOK, expected: domain.IsUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, header: map[string]string{"Retry-After": "3"}, expected: domain.IsRateLimited},
		{name: "server error", status: http.StatusServiceUnavailable, expected: domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSlack()
			fake.reply("chat.postMessage", tt.body, tt.status, tt.header)
			pub := newTestPublisher(t, fake)

			ref, err := pub.PostText(context.Background(), "C0123", "digest")

			require.Error(t, err)
			assert.True(t, tt.expected(err), "unexpected error: %v", err)
			assert.Equal(t, domain.MessageRef{}, ref)
		})
	}
}

func TestPublisher_PostText_RateLimitCarriesRetryAfter(t *testing.T) {
	fake := newFakeSlack()
	fake.reply("chat.postMessage", "", http.StatusTooManyRequests, map[string]string{"Retry-After": "3"})
	pub := newTestPublisher(t, fake)

	_, err := pub.PostText(context.Background(), "C0123", "digest")

	var rl *domain.RateLimitedError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
}

func TestPublisher_AttachReaction(t *testing.T) {
	fake := newFakeSlack()
	pub := newTestPublisher(t, fake)
	ref := domain.MessageRef{Channel: "C0123", Timestamp: "1700000000.000100"}

	err := pub.AttachReaction(context.Background(), ref, ":crossed_swords:")

	require.NoError(t, err)

	calls := fake.calls("reactions.add")
	require.Len(t, calls, 1)
	assert.Equal(t, "crossed_swords", calls[0]["name"])
	assert.Equal(t, "C0123", calls[0]["channel"])
	assert.Equal(t, "1700000000.000100", calls[0]["timestamp"])
}

func TestPublisher_AttachReaction_AlreadyReacted(t *testing.T) {
	fake := newFakeSlack()
	fake.reply("reactions.add", `{"ok":false,"error":"already_reacted"}`, http.StatusOK, nil)
	pub := newTestPublisher(t, fake)

	err := pub.AttachReaction(context.Background(), domain.MessageRef{Channel: "C1", Timestamp: "1.2"}, "star")

	assert.NoError(t, err)
}

func TestPublisher_AttachReaction_InvalidName(t *testing.T) {
	fake := newFakeSlack()
	fake.reply("reactions.add", `{"ok":false,"error":"invalid_name"}`, http.StatusOK, nil)
	pub := newTestPublisher(t, fake)

	err := pub.AttachReaction(context.Background(), domain.MessageRef{Channel: "C1", Timestamp: "1.2"}, "not_an_emoji")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestPublisher_AttachReaction_UnusableMarker(t *testing.T) {
	fake := newFakeSlack()
	pub := newTestPublisher(t, fake)

	err := pub.AttachReaction(context.Background(), domain.MessageRef{Channel: "C1", Timestamp: "1.2"}, "::")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, fake.calls("reactions.add"))
}

func TestPublisher_NameAndCheck(t *testing.T) {
	fake := newFakeSlack()
	pub := newTestPublisher(t, fake)

	assert.Equal(t, "slack", pub.Name())
	require.NoError(t, pub.Check(context.Background()))
	assert.Len(t, fake.calls("auth.test"), 1)
}

func TestPublisher_Check_InvalidToken(t *testing.T) {
	fake := newFakeSlack()
	fake.reply("auth.test", `{"ok":false,"error":"not_authed"}`, http.StatusOK, nil)
	pub := newTestPublisher(t, fake)

	err := pub.Check(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
}

func TestPublisher_CancelledContext(t *testing.T) {
	fake := newFakeSlack()
	pub := newTestPublisher(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pub.PostText(ctx, "C0123", "digest")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
