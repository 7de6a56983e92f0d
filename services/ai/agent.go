package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"
	redismodels "gamerscove/models/redis"
	"gamerscove/services/chatstate"
	"gamerscove/services/games"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

// ChatModel is the slice of the OpenAI client the agent needs. The real
// *openai.Client satisfies it; tests substitute a scripted fake.
type ChatModel interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Agent runs one chat turn: it feeds the session window plus the user
// message to the model, dispatches at most one tool call, merges quiz
// state and persists the updated session.
type Agent struct {
	model     ChatModel
	modelName string
	tools     *Tools
	sessions  *chatstate.Store
}

func NewAgent(model ChatModel, modelName string, tools *Tools, sessions *chatstate.Store) *Agent {
	return &Agent{model: model, modelName: modelName, tools: tools, sessions: sessions}
}

var (
	lookupReviewsParams = json.RawMessage(`{"type":"object","properties":{"title":{"type":"string","description":"Title of the game, as the user wrote it"}},"required":["title"]}`)
	recommendParams     = json.RawMessage(`{"type":"object","properties":{"title":{"type":"string","description":"Title of the game the user wants recommendations based on"},"similar_titles":{"type":"array","items":{"type":"string"},"description":"Up to 3 titles of similar games"}},"required":["title"]}`)
	startQuizParams     = json.RawMessage(`{"type":"object","properties":{}}`)
)

func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "lookup_reviews",
				Description: "Look up a game in the catalog and return its top reviews.",
				Parameters:  lookupReviewsParams,
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "recommend_games",
				Description: "Return catalog entries for games similar to the one the user named.",
				Parameters:  recommendParams,
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "start_quiz",
				Description: "Start a guess-the-game quiz for this session.",
				Parameters:  startQuizParams,
			},
		},
	}
}

// Chat handles one user message. A blank session id starts a new session.
// It returns the response envelope and the session id the caller should
// hand back to the client. The error is non-nil only when the model
// itself is unreachable; the envelope is still populated with a degraded
// reply in that case.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (Envelope, string, error) {
	if strings.TrimSpace(message) == "" {
		return NewEnvelope("Please type a message so I can help you."), sessionID, apperror.InvalidArgument("message must not be empty")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		logger.Log.Warnw("failed to load chat session, starting fresh", "session_id", sessionID, "error", err)
		session = &redismodels.ChatSession{}
	}

	req := openai.ChatCompletionRequest{
		Model:    a.modelName,
		Messages: a.buildMessages(ctx, session, message),
		Tools:    toolDefinitions(),
	}

	resp, err := a.model.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) == 0 {
		if err == nil {
			err = fmt.Errorf("model returned no choices")
		}
		env := NewEnvelope("Sorry, I'm having trouble answering right now. Please try again in a moment.")
		env.Normalize()
		return env, sessionID, apperror.ExternalService("chat model request failed", err)
	}

	choice := resp.Choices[0].Message

	var env Envelope
	if len(choice.ToolCalls) > 0 {
		env = a.runToolCall(ctx, session, req.Messages, choice)
	} else {
		env = ParseEnvelope(choice.Content)
		a.applyQuizTransition(session, &env)
	}

	session.Messages = append(session.Messages,
		redismodels.ChatMessage{Role: openai.ChatMessageRoleUser, Content: message},
		redismodels.ChatMessage{Role: openai.ChatMessageRoleAssistant, Content: env.Reply},
	)
	if err := a.sessions.Save(ctx, sessionID, session); err != nil {
		logger.Log.Warnw("failed to persist chat session", "session_id", sessionID, "error", err)
	}

	env.Normalize()
	return env, sessionID, nil
}

func (a *Agent) buildMessages(ctx context.Context, session *redismodels.ChatSession, message string) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if session.Quiz != nil && session.Quiz.Active {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.quizContext(ctx, session.Quiz),
		})
	}
	for _, m := range session.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}

// quizContext gives the model everything it needs to referee the quiz:
// the hidden answer and the full hint ladder, so wrong guesses can be
// answered without another tool round-trip.
func (a *Agent) quizContext(ctx context.Context, quiz *redismodels.QuizState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUIZ IN PROGRESS. Hidden answer: %s. Current hint number: %d. Remaining attempts: %d.",
		quiz.Title, quiz.HintNumber, quiz.RemainingAttempts)

	if game := a.quizGame(ctx, quiz); game != nil {
		b.WriteString(" Hints in order:")
		for n := 1; n <= maxQuizHints; n++ {
			fmt.Fprintf(&b, " %d) %s.", n, QuizHint(game, n))
		}
	}
	return b.String()
}

func (a *Agent) quizGame(ctx context.Context, quiz *redismodels.QuizState) *postgres.Game {
	if quiz.GameID != 0 {
		if game, err := a.tools.games.FindByID(ctx, quiz.GameID); err == nil {
			return game
		}
	}
	return games.BestTitleMatch(FallbackGames(), quiz.Title)
}

type toolArguments struct {
	Title         string   `json:"title"`
	SimilarTitles []string `json:"similar_titles"`
}

// runToolCall dispatches the first tool call of the response, then asks
// the model once more to phrase the final reply around the tool result.
// The refinement is best-effort: if it fails, the tool envelope's own
// reply stands.
func (a *Agent) runToolCall(ctx context.Context, session *redismodels.ChatSession, history []openai.ChatCompletionMessage, assistant openai.ChatCompletionMessage) Envelope {
	call := assistant.ToolCalls[0]

	var args toolArguments
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			logger.Log.Warnw("malformed tool arguments", "tool", call.Function.Name, "error", err)
		}
	}

	var env Envelope
	switch call.Function.Name {
	case "lookup_reviews":
		env = a.tools.LookupReviews(ctx, args.Title)
	case "recommend_games":
		env = a.tools.Recommend(ctx, args.Title, args.SimilarTitles)
	case "start_quiz":
		var state *redismodels.QuizState
		env, state = a.tools.StartQuiz(ctx)
		session.Quiz = state
	default:
		logger.Log.Warnw("model requested unknown tool", "tool", call.Function.Name)
		return NewEnvelope("Sorry, I couldn't complete that request.")
	}

	if refined := a.refineReply(ctx, history, assistant, call.ID, env); refined != "" {
		env.Reply = refined
	}
	return env
}

func (a *Agent) refineReply(ctx context.Context, history []openai.ChatCompletionMessage, assistant openai.ChatCompletionMessage, callID string, env Envelope) string {
	result, err := json.Marshal(env)
	if err != nil {
		return ""
	}

	messages := append(append([]openai.ChatCompletionMessage{}, history...), assistant,
		openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: callID,
			Content:    string(result),
		})

	resp, err := a.model.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.modelName,
		Messages: messages,
	})
	if err != nil || len(resp.Choices) == 0 {
		logger.Log.Warnw("tool reply refinement failed", "error", err)
		return ""
	}
	return ParseEnvelope(resp.Choices[0].Message.Content).Reply
}

// applyQuizTransition reconciles the stored quiz state with what the
// model answered. Quiz progress (hint number, attempts) follows the
// model; the hidden answer never leaves the stored state.
func (a *Agent) applyQuizTransition(session *redismodels.ChatSession, env *Envelope) {
	if session.Quiz == nil || !session.Quiz.Active {
		return
	}
	if !env.Quiz.Active {
		session.Quiz = nil
		return
	}
	if env.Quiz.HintNumber != nil {
		session.Quiz.HintNumber = *env.Quiz.HintNumber
	}
	if env.Quiz.RemainingAttempts != nil {
		session.Quiz.RemainingAttempts = *env.Quiz.RemainingAttempts
	}
}
