package redis

// ChatMessage is one turn of a chat conversation kept in the session window.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QuizState tracks an in-progress guess-the-game quiz for one session.
// Title is the hidden answer; it is fed back to the model as context and
// never surfaced to the client until the quiz ends.
type QuizState struct {
	Active            bool   `json:"active"`
	GameID            uint   `json:"game_id"`
	Title             string `json:"title"`
	HintNumber        int    `json:"hint_number"`
	RemainingAttempts int    `json:"remaining_attempts"`
}

// ChatSession is the per-session conversation state owned by the chat
// gateway, keyed by session id in Redis with a TTL.
type ChatSession struct {
	Messages []ChatMessage `json:"messages"`
	Quiz     *QuizState    `json:"quiz,omitempty"`
}
