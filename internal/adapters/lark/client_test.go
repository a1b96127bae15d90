package lark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candat96/jira-lark-webhook/internal/config"
	"github.com/candat96/jira-lark-webhook/internal/domain"
	"github.com/candat96/jira-lark-webhook/internal/team"
	"github.com/rs/zerolog"
)

func testClient() *Client {
	cfg := config.Config{LarkTimeout: 2 * time.Second}
	return NewClient(cfg, team.New([]string{"team@x.com"}, nil), zerolog.Nop())
}

func larkStub(t *testing.T, status int, body string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if hits != nil {
			*hits++
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_SuccessOnEitherCodeSpelling(t *testing.T) {
	c := testClient()
	msg := newCard("t", "c", "blue", "")

	srv := larkStub(t, 200, `{"StatusCode":0,"StatusMessage":"success"}`, nil)
	assert.True(t, c.Send(context.Background(), msg, srv.URL))

	srv2 := larkStub(t, 200, `{"code":0,"msg":"success"}`, nil)
	assert.True(t, c.Send(context.Background(), msg, srv2.URL))
}

func TestSend_Failures(t *testing.T) {
	c := testClient()
	msg := newCard("t", "c", "blue", "")

	// Nonzero result code in a 2xx body.
	srv := larkStub(t, 200, `{"code":19001,"msg":"param invalid"}`, nil)
	assert.False(t, c.Send(context.Background(), msg, srv.URL))

	// Non-2xx HTTP status.
	srv2 := larkStub(t, 500, `oops`, nil)
	assert.False(t, c.Send(context.Background(), msg, srv2.URL))

	// Body without any known code field.
	srv3 := larkStub(t, 200, `{}`, nil)
	assert.False(t, c.Send(context.Background(), msg, srv3.URL))

	// Transport error.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	assert.False(t, c.Send(context.Background(), msg, dead.URL))
}

func TestSendWithFallback_RetriesOncePlain(t *testing.T) {
	c := testClient()
	ev := domain.Created{Base: domain.Base{
		IssueKey: "APO-70",
		Summary:  "s",
		BaseURL:  "https://acme.atlassian.net",
		Reporter: domain.User{Email: "team@x.com", DisplayName: "Team Member"},
	}}

	// First attempt rejected, second accepted: overall success with
	// exactly two outbound calls.
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(500)
			return
		}
		_, _ = w.Write([]byte(`{"StatusCode":0}`))
	}))
	t.Cleanup(srv.Close)
	assert.True(t, c.SendWithFallback(context.Background(), ev, srv.URL))
	assert.Equal(t, 2, hits)

	// Both attempts rejected: failure after exactly two calls, never a
	// third.
	hits2 := 0
	srv2 := larkStub(t, 500, `oops`, &hits2)
	assert.False(t, c.SendWithFallback(context.Background(), ev, srv2.URL))
	assert.Equal(t, 2, hits2)

	// First attempt accepted: single call.
	hits3 := 0
	srv3 := larkStub(t, 200, `{"StatusCode":0}`, &hits3)
	assert.True(t, c.SendWithFallback(context.Background(), ev, srv3.URL))
	assert.Equal(t, 1, hits3)
}

func TestResolveWebhook(t *testing.T) {
	rt := config.RouteTable{
		Default:  "https://open.larksuite.com/hook/default",
		ByPrefix: map[string]string{"APO": "https://open.larksuite.com/hook/apo"},
	}

	assert.Equal(t, "https://open.larksuite.com/hook/apo", ResolveWebhook("APO-70", rt))
	assert.Equal(t, rt.Default, ResolveWebhook("ZZZ-1", rt))
	assert.Equal(t, rt.Default, ResolveWebhook("NODASH", rt))
	// Prefix is everything before the first separator only.
	assert.Equal(t, rt.Default, ResolveWebhook("APO-SUB-1-2", rt))
	rt.ByPrefix["APO"] = "x"
	assert.Equal(t, "x", ResolveWebhook("APO-SUB-1-2", rt))
}

func TestSendTest_PostsGreenCard(t *testing.T) {
	c := testClient()
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &got))
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	t.Cleanup(srv.Close)

	assert.True(t, c.SendTest(context.Background(), srv.URL))
	require.NotNil(t, got.Card)
	assert.Equal(t, "green", got.Card.Header.Template)
	assert.Equal(t, "✅ Test Message", got.Card.Header.Title.Content)
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
