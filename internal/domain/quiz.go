package domain

import (
	"time"
)

// Difficulty levels assigned to generated questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a single multiple-choice question. The answer must appear
// verbatim among the options; Validate enforces that contract.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Validate checks the option/answer contract for a single question.
func (q *Question) Validate() error {
	if q.Question == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) != 4 {
		return NewInvalidInputError("question must have exactly 4 options")
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return NewInvalidInputError("answer must match one of the options")
}

// KeyEntities groups named entities extracted from the article. All lists
// may be empty; the fallback generation path never populates them.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// GeneratedQuiz is what a quiz generator produces for one article.
type GeneratedQuiz struct {
	Quiz          []Question  `json:"quiz"`
	KeyEntities   KeyEntities `json:"key_entities"`
	RelatedTopics []string    `json:"related_topics"`
}

// Validate rejects generator output that breaks the quiz contract. A
// rejection sends the caller to the fallback generator.
func (g *GeneratedQuiz) Validate() error {
	if len(g.Quiz) == 0 {
		return NewInvalidInputError("quiz must not be empty")
	}
	for i := range g.Quiz {
		if err := g.Quiz[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Article is the scraped and cleaned representation of a Wikipedia page.
// Content is a bounded slice of the article text, sized for prompt limits.
type Article struct {
	URL      string
	Title    string
	Summary  string
	Content  string
	Sections []string
	RawHTML  string
}

// QuizRecord is the persisted result of one generation, keyed by URL.
// Records are created once and never updated or deleted.
type QuizRecord struct {
	ID            int64
	URL           string
	Title         string
	Summary       string
	KeyEntities   KeyEntities
	Sections      []string
	Quiz          []Question
	RelatedTopics []string
	RawHTML       string
	CreatedAt     time.Time
}

// HistoryItem is the listing projection of a QuizRecord.
type HistoryItem struct {
	ID        int64
	URL       string
	Title     string
	CreatedAt time.Time
}
