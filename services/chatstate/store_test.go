package chatstate

import (
	"context"
	"fmt"
	"testing"
	"time"

	models "gamerscove/models/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr
}

func TestLoadMissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, session.Messages)
	assert.Nil(t, session.Quiz)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	session := &models.ChatSession{
		Messages: []models.ChatMessage{
			{Role: "user", Content: "hola"},
			{Role: "assistant", Content: "hey!"},
		},
		Quiz: &models.QuizState{Active: true, GameID: 3, Title: "Celeste", HintNumber: 2, RemainingAttempts: 4},
	}
	require.NoError(t, store.Save(ctx, "s1", session))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session.Messages, loaded.Messages)
	require.NotNil(t, loaded.Quiz)
	assert.Equal(t, "Celeste", loaded.Quiz.Title)
	assert.Equal(t, 4, loaded.Quiz.RemainingAttempts)

	ttl := mr.TTL("chat:session:s1")
	assert.Equal(t, 2*time.Hour, ttl)
}

func TestSaveTrimsMessageWindow(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	session := &models.ChatSession{}
	for i := 0; i < maxMessages+7; i++ {
		session.Messages = append(session.Messages, models.ChatMessage{
			Role: "user", Content: fmt.Sprintf("message %d", i),
		})
	}
	require.NoError(t, store.Save(ctx, "s1", session))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Messages, maxMessages)
	// Oldest messages drop, the newest stay.
	assert.Equal(t, "message 7", loaded.Messages[0].Content)
	assert.Equal(t, fmt.Sprintf("message %d", maxMessages+6), loaded.Messages[maxMessages-1].Content)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "s1", &models.ChatSession{
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	}))
	require.NoError(t, store.Delete(ctx, "s1"))

	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, session.Messages)
}
