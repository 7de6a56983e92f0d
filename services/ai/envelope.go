package ai

import (
	"encoding/json"
	"strings"

	"gamerscove/models/postgres"
)

// Quiz is the quiz portion of the chat envelope. All fields other than
// Active are null while no quiz is in progress.
type Quiz struct {
	Active            bool    `json:"active"`
	HintNumber        *int    `json:"hintNumber"`
	Hint              *string `json:"hint"`
	RemainingAttempts *int    `json:"remainingAttempts"`
}

// GameInfo is the descriptive game block of the envelope.
type GameInfo struct {
	ID            uint     `json:"id"`
	ExternalAPIID string   `json:"externalApiId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CoverImageURL string   `json:"coverImageUrl"`
	ReleaseDate   *string  `json:"releaseDate"`
	Platforms     []string `json:"platforms"`
	Genres        []string `json:"genres"`
}

// ReviewInfo is one review entry of the envelope.
type ReviewInfo struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"userId"`
	GameID    uint   `json:"gameId"`
	GameTitle string `json:"gameTitle"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Recommendation is one recommended game of the envelope.
type Recommendation struct {
	ID            uint     `json:"id,omitempty"`
	Title         string   `json:"title"`
	CoverImageURL string   `json:"coverImageUrl"`
	Genres        []string `json:"genres"`
	Rating        string   `json:"rating"`
}

// Envelope is the fixed response shape of the chat gateway. Every chat
// request produces one, whatever the model or the tools did; the gateway
// normalizes before emission so clients never see missing fields.
type Envelope struct {
	Reply           string           `json:"reply"`
	Game            *GameInfo        `json:"game"`
	Reviews         []ReviewInfo     `json:"reviews"`
	Recommendations []Recommendation `json:"recommendations"`
	Quiz            Quiz             `json:"quiz"`
}

// NewEnvelope returns a normalized reply-only envelope.
func NewEnvelope(reply string) Envelope {
	e := Envelope{Reply: reply}
	e.Normalize()
	return e
}

// Normalize replaces nil collections with empty ones and clears stray quiz
// fields when the quiz is inactive.
func (e *Envelope) Normalize() {
	if e.Reviews == nil {
		e.Reviews = []ReviewInfo{}
	}
	if e.Recommendations == nil {
		e.Recommendations = []Recommendation{}
	}
	if !e.Quiz.Active {
		e.Quiz.HintNumber = nil
		e.Quiz.Hint = nil
		e.Quiz.RemainingAttempts = nil
	}
}

// ParseEnvelope interprets raw model output. Valid envelope JSON (with or
// without a markdown fence) is passed through normalized; anything else is
// wrapped as a reply-only envelope so malformed output never reaches the
// client unenveloped.
func ParseEnvelope(raw string) Envelope {
	text := strings.TrimSpace(raw)
	stripped := stripFence(text)

	var e Envelope
	if err := json.Unmarshal([]byte(stripped), &e); err == nil && looksLikeEnvelope(stripped) {
		if e.Reply == "" && e.Game == nil && len(e.Reviews) == 0 && len(e.Recommendations) == 0 && !e.Quiz.Active {
			return NewEnvelope(text)
		}
		e.Normalize()
		return e
	}
	return NewEnvelope(text)
}

func looksLikeEnvelope(text string) bool {
	return strings.HasPrefix(text, "{")
}

// stripFence removes a surrounding markdown code fence; models wrap JSON
// in them despite instructions.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// GameInfoFrom converts a catalog row into the envelope's game block.
func GameInfoFrom(game *postgres.Game) *GameInfo {
	if game == nil {
		return nil
	}
	info := &GameInfo{
		ID:            game.ID,
		ExternalAPIID: game.ExternalAPIID,
		Title:         game.Title,
		Description:   game.Description,
		CoverImageURL: game.CoverImageURL,
		Platforms:     game.PlatformList(),
		Genres:        game.GenreList(),
	}
	if game.ReleaseDate != nil {
		date := game.ReleaseDate.Format("2006-01-02")
		info.ReleaseDate = &date
	}
	return info
}
