package dto

import (
	"time"

	"wiki-quiz/internal/domain"
)

// GenerateQuizRequest is the body of POST /api/generate-quiz
// @Description Request body for generating a quiz from a Wikipedia URL
type GenerateQuizRequest struct {
	URL string `json:"url"`
}

// QuestionResponse mirrors domain.Question on the wire.
type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// KeyEntitiesResponse groups extracted entities.
type KeyEntitiesResponse struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizResponse is the full stored record returned by generate and get-by-id.
// RawHTML is persisted for reuse but never sent to the client.
type QuizResponse struct {
	ID            int64               `json:"id"`
	URL           string              `json:"url"`
	Title         string              `json:"title"`
	Summary       string              `json:"summary"`
	KeyEntities   KeyEntitiesResponse `json:"key_entities"`
	Sections      []string            `json:"sections"`
	Quiz          []QuestionResponse  `json:"quiz"`
	RelatedTopics []string            `json:"related_topics"`
	CreatedAt     time.Time           `json:"created_at"`
}

// HistoryItemResponse is one row of the history listing.
type HistoryItemResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse is the body of GET /api/history
type HistoryResponse struct {
	Quizzes []HistoryItemResponse `json:"quizzes"`
	Total   int                   `json:"total"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromRecord converts a stored record to its response shape.
func FromRecord(r *domain.QuizRecord) *QuizResponse {
	questions := make([]QuestionResponse, 0, len(r.Quiz))
	for _, q := range r.Quiz {
		questions = append(questions, QuestionResponse{
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}
	return &QuizResponse{
		ID:      r.ID,
		URL:     r.URL,
		Title:   r.Title,
		Summary: r.Summary,
		KeyEntities: KeyEntitiesResponse{
			People:        emptyIfNil(r.KeyEntities.People),
			Organizations: emptyIfNil(r.KeyEntities.Organizations),
			Locations:     emptyIfNil(r.KeyEntities.Locations),
		},
		Sections:      emptyIfNil(r.Sections),
		Quiz:          questions,
		RelatedTopics: emptyIfNil(r.RelatedTopics),
		CreatedAt:     r.CreatedAt,
	}
}

// FromHistory converts listing rows to the history response shape.
func FromHistory(items []domain.HistoryItem, total int) *HistoryResponse {
	quizzes := make([]HistoryItemResponse, 0, len(items))
	for _, item := range items {
		quizzes = append(quizzes, HistoryItemResponse{
			ID:        item.ID,
			URL:       item.URL,
			Title:     item.Title,
			CreatedAt: item.CreatedAt,
		})
	}
	return &HistoryResponse{Quizzes: quizzes, Total: total}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
