package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/realtime"
	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	"github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/usecase"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
)

type fakeChatRepo struct {
	mu       sync.Mutex
	convs    map[string]chat.Conversation
	messages []chat.Message
	created  int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{convs: make(map[string]chat.Conversation)}
}

func (f *fakeChatRepo) EnsureConversation(ctx context.Context, a, b int64) (chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b < a {
		a, b = b, a
	}
	key := chat.CanonicalRoomKey(a, b)
	if conv, ok := f.convs[key]; ok {
		return conv, nil
	}
	f.created++
	conv := chat.Conversation{ID: fmt.Sprintf("conv-%d", f.created), RoomKey: key, ParticipantA: a, ParticipantB: b}
	f.convs[key] = conv
	return conv, nil
}

func (f *fakeChatRepo) GetConversationByRoomKey(ctx context.Context, roomKey string) (chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[roomKey]
	if !ok {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	return conv, nil
}

func (f *fakeChatRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	return nil, nil
}

func (f *fakeChatRepo) ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	return nil, nil
}

func (f *fakeChatRepo) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type fakeUserRepo struct {
	users map[int64]users.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

// receivedFrame mirrors the wire shape clients see.
type receivedFrame struct {
	Message   string `json:"message"`
	Sender    int64  `json:"sender"`
	Receiver  int64  `json:"receiver"`
	Timestamp string `json:"timestamp"`
}

func newSocketServer(t *testing.T, repo *fakeChatRepo, registry *realtime.Registry) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := &fakeUserRepo{users: map[int64]users.User{
		3: {ID: 3, Username: "mika"},
		7: {ID: 7, Username: "rin"},
	}}
	ctl := &ChatSocketController{
		registry:        registry,
		ensureUC:        usecase.NewEnsureConversationUseCase(repo),
		sendMessageUC:   usecase.NewSendMessageUseCase(repo, userRepo),
		inflightTimeout: 2 * time.Second,
		log:             zerolog.Nop(),
	}

	r := gin.New()
	r.GET("/chat/ws/:room", ctl.Handle())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialRoom(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws/" + room
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) receivedFrame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame receivedFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func waitForMembers(t *testing.T, registry *realtime.Registry, roomKey string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(registry.MembersOf(roomKey)) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d members", roomKey, want)
}

func TestChatSocket_BothOrderingsShareRoom(t *testing.T) {
	repo := newFakeChatRepo()
	registry := realtime.NewRegistry(zerolog.Nop())
	srv := newSocketServer(t, repo, registry)

	// User 7 opens "7_3", user 3 opens "3_7". Same conversation either way.
	first := dialRoom(t, srv, "7_3")
	second := dialRoom(t, srv, "3_7")
	waitForMembers(t, registry, "3_7", 2)

	require.NoError(t, first.WriteJSON(inboundFrame{Sender: 7, Receiver: 3, Content: "hi"}))

	for _, ws := range []*websocket.Conn{first, second} {
		frame := readFrame(t, ws)
		assert.Equal(t, "hi", frame.Message)
		assert.Equal(t, int64(7), frame.Sender)
		assert.Equal(t, int64(3), frame.Receiver)
		_, err := time.Parse(time.RFC3339Nano, frame.Timestamp)
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, repo.savedCount())
	assert.Equal(t, 1, repo.created)
}

func TestChatSocket_RejectsBadRoomTarget(t *testing.T) {
	repo := newFakeChatRepo()
	registry := realtime.NewRegistry(zerolog.Nop())
	srv := newSocketServer(t, repo, registry)

	for _, room := range []string{"banana", "7_x", "7_7", "7_3_9"} {
		resp, err := http.Get(srv.URL + "/chat/ws/" + room)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "room %q", room)
	}
	assert.Equal(t, 0, repo.created)
}

func TestChatSocket_DroppedFrameKeepsConnectionAlive(t *testing.T) {
	repo := newFakeChatRepo()
	registry := realtime.NewRegistry(zerolog.Nop())
	srv := newSocketServer(t, repo, registry)

	sender := dialRoom(t, srv, "3_7")
	waitForMembers(t, registry, "3_7", 1)

	// Empty content and a non-participant sender both get dropped silently.
	require.NoError(t, sender.WriteJSON(inboundFrame{Sender: 3, Receiver: 7, Content: "   "}))
	require.NoError(t, sender.WriteJSON(inboundFrame{Sender: 99, Receiver: 7, Content: "intruder"}))
	require.NoError(t, sender.WriteJSON(inboundFrame{Sender: 3, Receiver: 7, Content: "still here"}))

	frame := readFrame(t, sender)
	assert.Equal(t, "still here", frame.Message)
	assert.Equal(t, int64(3), frame.Sender)
	assert.Equal(t, 1, repo.savedCount())
}

func TestChatSocket_LeaveOnDisconnect(t *testing.T) {
	repo := newFakeChatRepo()
	registry := realtime.NewRegistry(zerolog.Nop())
	srv := newSocketServer(t, repo, registry)

	ws := dialRoom(t, srv, "3_7")
	waitForMembers(t, registry, "3_7", 1)

	require.NoError(t, ws.Close())
	waitForMembers(t, registry, "3_7", 0)
}
