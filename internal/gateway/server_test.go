package gateway

import (
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/bot"
	"github.com/matchmates/matchmates-bot/internal/intake"
	"github.com/matchmates/matchmates-bot/internal/interest"
	"github.com/matchmates/matchmates-bot/internal/match"
	"github.com/matchmates/matchmates-bot/internal/profile"
	"github.com/matchmates/matchmates-bot/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	profiles := profile.NewMemoryStore()
	edges := interest.NewMemoryStore()
	sessions := session.NewMemoryStore()
	log := zap.NewNop()

	orch := bot.NewOrchestrator(
		sessions,
		profiles,
		intake.NewMachine(profiles),
		match.NewEngine(profiles, sessions, rand.New(rand.NewSource(1)), log),
		interest.NewEngine(edges, sessions, log),
		log,
	)
	srv := NewServer(NewHub(), orch, secret, log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	tok, err := IssueToken(userID, secret, time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestGatewayRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "u1")

	require.NoError(t, conn.WriteJSON(InboundMessage{Kind: "command", Payload: "/start"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var out OutboundMessage
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "reply", out.Type)
	assert.Contains(t, out.Text, "Welcome")
	assert.NotEmpty(t, out.Buttons)
}

func TestGatewayIntakePromptSequence(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "u1")
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(InboundMessage{Kind: "command", Payload: "/profile"}))
	var out OutboundMessage
	require.NoError(t, conn.ReadJSON(&out))
	assert.Contains(t, out.Text, "name")

	require.NoError(t, conn.WriteJSON(InboundMessage{Kind: "text", Payload: "Alice"}))
	require.NoError(t, conn.ReadJSON(&out))
	assert.Contains(t, out.Text, "gender")
}

func TestGatewayHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
