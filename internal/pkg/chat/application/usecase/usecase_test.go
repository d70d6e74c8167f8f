package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/chat/application/domain"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
)

// fakeChatRepo is an in-memory ChatRepository with the same contract as the
// Postgres adapter: one conversation per canonical key, messages appended in
// insertion order.
type fakeChatRepo struct {
	mu       sync.Mutex
	convs    map[string]chat.Conversation // roomKey -> conversation
	messages []chat.Message
	nextMsg  int64
	created  int
	failWith error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{convs: make(map[string]chat.Conversation)}
}

func (f *fakeChatRepo) EnsureConversation(ctx context.Context, a, b int64) (chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return chat.Conversation{}, f.failWith
	}
	if b < a {
		a, b = b, a
	}
	key := chat.CanonicalRoomKey(a, b)
	if conv, ok := f.convs[key]; ok {
		return conv, nil
	}
	f.created++
	conv := chat.Conversation{
		ID:           fmt.Sprintf("conv-%d", f.created),
		RoomKey:      key,
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    time.Now().UTC(),
	}
	f.convs[key] = conv
	return conv, nil
}

func (f *fakeChatRepo) GetConversationByRoomKey(ctx context.Context, roomKey string) (chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return chat.Conversation{}, f.failWith
	}
	conv, ok := f.convs[roomKey]
	if !ok {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	return conv, nil
}

func (f *fakeChatRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return chat.Message{}, f.failWith
	}
	f.nextMsg++
	m.ID = f.nextMsg
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var msgs []chat.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			msgs = append(msgs, m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (f *fakeChatRepo) ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var convs []chat.Conversation
	for _, c := range f.convs {
		if c.HasParticipant(userID) {
			convs = append(convs, c)
		}
	}
	return convs, nil
}

type fakeUserRepo struct {
	users map[int64]users.User
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	m := make(map[int64]users.User, len(ids))
	for _, id := range ids {
		m[id] = users.User{ID: id, Username: fmt.Sprintf("user-%d", id)}
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

func TestEnsureConversation_IdempotentAcrossOrderings(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewEnsureConversationUseCase(repo)
	ctx := context.Background()

	first, err := uc.Execute(ctx, EnsureConversationInput{UserA: 7, UserB: 3})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, EnsureConversationInput{UserA: 3, UserB: 7})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "3_7", first.RoomKey)
	assert.Equal(t, 1, repo.created)
}

func TestEnsureConversation_RejectsBadPair(t *testing.T) {
	uc := NewEnsureConversationUseCase(newFakeChatRepo())
	ctx := context.Background()

	for _, in := range []EnsureConversationInput{
		{UserA: 0, UserB: 3},
		{UserA: 7, UserB: -1},
		{UserA: 7, UserB: 7},
	} {
		_, err := uc.Execute(ctx, in)
		assert.ErrorIs(t, err, chat.ErrBadRoomTarget)
	}
}

func TestEnsureConversation_ConcurrentFirstContact(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewEnsureConversationUseCase(repo)

	ids := make(chan string, 32)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			in := EnsureConversationInput{UserA: 7, UserB: 3}
			if n%2 == 0 {
				in = EnsureConversationInput{UserA: 3, UserB: 7}
			}
			conv, err := uc.Execute(context.Background(), in)
			if err != nil {
				t.Errorf("ensure conversation: %v", err)
				return
			}
			ids <- conv.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	first := ""
	for id := range ids {
		if first == "" {
			first = id
		}
		assert.Equal(t, first, id)
	}
	assert.Equal(t, 1, repo.created)
}

func TestSendMessage(t *testing.T) {
	conv := chat.Conversation{ID: "conv-1", RoomKey: "3_7", ParticipantA: 3, ParticipantB: 7}

	tests := []struct {
		name    string
		userIDs []int64
		in      SendMessageInput
		wantErr error
	}{
		{
			name:    "sender must be a participant",
			userIDs: []int64{3, 7, 42},
			in:      SendMessageInput{Conversation: conv, SenderID: 42, ReceiverID: 3, Content: "hi"},
			wantErr: chat.ErrNotParticipant,
		},
		{
			name:    "unknown sender",
			userIDs: []int64{3},
			in:      SendMessageInput{Conversation: conv, SenderID: 7, ReceiverID: 3, Content: "hi"},
			wantErr: users.ErrUserNotFound,
		},
		{
			name:    "unknown receiver",
			userIDs: []int64{7},
			in:      SendMessageInput{Conversation: conv, SenderID: 7, ReceiverID: 3, Content: "hi"},
			wantErr: users.ErrUserNotFound,
		},
		{
			name:    "empty content",
			userIDs: []int64{3, 7},
			in:      SendMessageInput{Conversation: conv, SenderID: 7, ReceiverID: 3, Content: "   "},
			wantErr: chat.ErrEmptyContent,
		},
		{
			name:    "missing conversation",
			userIDs: []int64{3, 7},
			in:      SendMessageInput{SenderID: 7, ReceiverID: 3, Content: "hi"},
			wantErr: chat.ErrConversationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewSendMessageUseCase(newFakeChatRepo(), newFakeUserRepo(tt.userIDs...))
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendMessage_AppendsAndReturnsPersisted(t *testing.T) {
	repo := newFakeChatRepo()
	conv, err := repo.EnsureConversation(context.Background(), 7, 3)
	require.NoError(t, err)

	uc := NewSendMessageUseCase(repo, newFakeUserRepo(3, 7))
	msg, err := uc.Execute(context.Background(), SendMessageInput{
		Conversation: conv, SenderID: 7, ReceiverID: 3, Content: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestSendMessage_RepoFailureIsPersistenceError(t *testing.T) {
	repo := newFakeChatRepo()
	conv, err := repo.EnsureConversation(context.Background(), 7, 3)
	require.NoError(t, err)
	repo.failWith = errors.New("connection reset")

	uc := NewSendMessageUseCase(repo, newFakeUserRepo(3, 7))
	_, err = uc.Execute(context.Background(), SendMessageInput{
		Conversation: conv, SenderID: 7, ReceiverID: 3, Content: "hi",
	})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestGetHistory_OrderAndOrderings(t *testing.T) {
	repo := newFakeChatRepo()
	ctx := context.Background()
	conv, err := repo.EnsureConversation(ctx, 7, 3)
	require.NoError(t, err)

	// Same timestamp on purpose: insertion order must break the tie.
	at := time.Now().UTC()
	for _, content := range []string{"M1", "M2", "M3"} {
		_, err := repo.SaveMessage(ctx, chat.Message{ConversationID: conv.ID, SenderID: 7, Content: content, CreatedAt: at})
		require.NoError(t, err)
	}

	uc := NewGetHistoryUseCase(repo)
	for _, target := range []string{"7_3", "3_7"} {
		msgs, err := uc.Execute(ctx, GetHistoryInput{RoomTarget: target})
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "M1", msgs[0].Content)
		assert.Equal(t, "M2", msgs[1].Content)
		assert.Equal(t, "M3", msgs[2].Content)
	}
}

func TestGetHistory_Errors(t *testing.T) {
	uc := NewGetHistoryUseCase(newFakeChatRepo())
	ctx := context.Background()

	_, err := uc.Execute(ctx, GetHistoryInput{RoomTarget: "not-a-room"})
	assert.ErrorIs(t, err, chat.ErrBadRoomTarget)

	_, err = uc.Execute(ctx, GetHistoryInput{RoomTarget: "3_7"})
	assert.ErrorIs(t, err, chat.ErrConversationNotFound)
}

func TestListChats(t *testing.T) {
	repo := newFakeChatRepo()
	ctx := context.Background()
	_, err := repo.EnsureConversation(ctx, 7, 3)
	require.NoError(t, err)
	_, err = repo.EnsureConversation(ctx, 7, 9)
	require.NoError(t, err)
	_, err = repo.EnsureConversation(ctx, 5, 9)
	require.NoError(t, err)

	uc := NewListChatsUseCase(repo)
	convs, err := uc.Execute(ctx, ListChatsInput{UserID: 7})
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	_, err = uc.Execute(ctx, ListChatsInput{UserID: 0})
	assert.Error(t, err)
}
