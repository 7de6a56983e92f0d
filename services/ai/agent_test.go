package ai

import (
	"context"
	"testing"

	"gamerscove/apperror"
	redismodels "gamerscove/models/redis"
	"gamerscove/services/chatstate"
	"gamerscove/services/games"
	"gamerscove/services/reviews"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel replays a scripted sequence of completions and records every
// request it saw.
type fakeModel struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	requests  []openai.ChatCompletionRequest
}

func (f *fakeModel) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return openai.ChatCompletionResponse{}, assert.AnError
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func toolCallResponse(name, arguments string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{
						ID:   "call-1",
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      name,
							Arguments: arguments,
						},
					},
				},
			}},
		},
	}
}

func newTestAgent(t *testing.T, model ChatModel) (*Agent, *chatstate.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	db := newTestDB(t)
	tools := NewTools(games.NewService(db), reviews.NewService(db))
	store := chatstate.NewStore(client)
	return NewAgent(model, "test-model", tools, store), store
}

func TestChatPlainReply(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		textResponse(`{"reply": "Hi! Ask me about games.", "quiz": {"active": false}}`),
	}}
	agent, store := newTestAgent(t, model)

	env, sessionID, err := agent.Chat(ctx, "", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, "Hi! Ask me about games.", env.Reply)
	assert.NotNil(t, env.Reviews)

	session, err := store.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "hello", session.Messages[0].Content)
	assert.Equal(t, env.Reply, session.Messages[1].Content)
}

func TestChatSessionContinuity(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		textResponse(`{"reply": "first", "quiz": {"active": false}}`),
		textResponse(`{"reply": "second", "quiz": {"active": false}}`),
	}}
	agent, _ := newTestAgent(t, model)

	_, sessionID, err := agent.Chat(ctx, "", "one")
	require.NoError(t, err)
	_, sameID, err := agent.Chat(ctx, sessionID, "two")
	require.NoError(t, err)
	assert.Equal(t, sessionID, sameID)

	// The second request must carry the first exchange.
	second := model.requests[1]
	var contents []string
	for _, m := range second.Messages {
		contents = append(contents, m.Content)
	}
	assert.Contains(t, contents, "one")
	assert.Contains(t, contents, "first")
	assert.Contains(t, contents, "two")
}

func TestChatToolCallStartsQuiz(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		toolCallResponse("start_quiz", "{}"),
		textResponse(`{"reply": "Quiz time! Hint #1 below.", "quiz": {"active": true, "hintNumber": 1, "remainingAttempts": 5}}`),
	}}
	agent, store := newTestAgent(t, model)

	env, sessionID, err := agent.Chat(ctx, "", "let's play the quiz")
	require.NoError(t, err)
	assert.True(t, env.Quiz.Active)
	require.NotNil(t, env.Quiz.RemainingAttempts)
	assert.Equal(t, 5, *env.Quiz.RemainingAttempts)
	assert.Equal(t, "Quiz time! Hint #1 below.", env.Reply)

	// The refinement round-trip must include the tool result message.
	require.Len(t, model.requests, 2)
	last := model.requests[1].Messages[len(model.requests[1].Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)

	session, err := store.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, session.Quiz)
	assert.True(t, session.Quiz.Active)
	assert.NotEmpty(t, session.Quiz.Title)
}

func TestChatToolCallLookupReviews(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		toolCallResponse("lookup_reviews", `{"title": "Hollow Knight"}`),
		textResponse("Here's what players say about Hollow Knight!"),
	}}
	agent, _ := newTestAgent(t, model)

	env, _, err := agent.Chat(ctx, "", "reviews for hollow knight?")
	require.NoError(t, err)
	require.NotNil(t, env.Game)
	assert.Equal(t, "Hollow Knight", env.Game.Title)
	assert.NotEmpty(t, env.Reviews)
	assert.Equal(t, "Here's what players say about Hollow Knight!", env.Reply)
}

func TestChatRefinementFailureKeepsToolReply(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{
		responses: []openai.ChatCompletionResponse{
			toolCallResponse("lookup_reviews", `{"title": "Celeste"}`),
			{},
		},
		errs: []error{nil, assert.AnError},
	}
	agent, _ := newTestAgent(t, model)

	env, _, err := agent.Chat(ctx, "", "reviews for celeste?")
	require.NoError(t, err)
	assert.Contains(t, env.Reply, "Celeste")
	assert.NotEmpty(t, env.Reviews)
}

func TestChatActiveQuizContext(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		textResponse(`{"reply": "Not quite! Hint #2: It's a Platformer game.", "quiz": {"active": true, "hintNumber": 2, "remainingAttempts": 4}}`),
	}}
	agent, store := newTestAgent(t, model)

	require.NoError(t, store.Save(ctx, "s1", &redismodels.ChatSession{
		Quiz: &redismodels.QuizState{Active: true, Title: "Celeste", HintNumber: 1, RemainingAttempts: 5},
	}))

	env, _, err := agent.Chat(ctx, "s1", "is it Mario?")
	require.NoError(t, err)
	assert.True(t, env.Quiz.Active)

	// The hidden answer rides in a system message, never in the reply.
	var quizContext string
	for _, m := range model.requests[0].Messages {
		if m.Role == openai.ChatMessageRoleSystem && m.Content != systemPrompt {
			quizContext = m.Content
		}
	}
	assert.Contains(t, quizContext, "Celeste")
	assert.NotContains(t, env.Reply, "Celeste")

	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session.Quiz)
	assert.Equal(t, 2, session.Quiz.HintNumber)
	assert.Equal(t, 4, session.Quiz.RemainingAttempts)
	assert.Equal(t, "Celeste", session.Quiz.Title)
}

func TestChatQuizEndsWhenModelDeactivates(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{responses: []openai.ChatCompletionResponse{
		textResponse(`{"reply": "Correct, it was Celeste! 🎉", "quiz": {"active": false}}`),
	}}
	agent, store := newTestAgent(t, model)

	require.NoError(t, store.Save(ctx, "s1", &redismodels.ChatSession{
		Quiz: &redismodels.QuizState{Active: true, Title: "Celeste", HintNumber: 3, RemainingAttempts: 2},
	}))

	env, _, err := agent.Chat(ctx, "s1", "Celeste!")
	require.NoError(t, err)
	assert.False(t, env.Quiz.Active)

	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, session.Quiz)
}

func TestChatModelFailure(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{errs: []error{assert.AnError}, responses: []openai.ChatCompletionResponse{{}}}
	agent, _ := newTestAgent(t, model)

	env, sessionID, err := agent.Chat(ctx, "", "hello?")
	assert.ErrorIs(t, err, apperror.ErrExternalService)
	assert.NotEmpty(t, sessionID)
	assert.NotEmpty(t, env.Reply)
	assert.NotNil(t, env.Reviews)
}

func TestChatEmptyMessage(t *testing.T) {
	agent, _ := newTestAgent(t, &fakeModel{})

	_, _, err := agent.Chat(context.Background(), "", "   ")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}
