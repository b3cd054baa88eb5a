package domain

import "context"

// QuizRepository is the persistence port for generated quizzes.
type QuizRepository interface {
	// FindByURL returns nil, nil when no record exists for the URL.
	FindByURL(ctx context.Context, url string) (*QuizRecord, error)
	// Insert assigns ID and CreatedAt on the given record.
	Insert(ctx context.Context, record *QuizRecord) error
	// FindByID returns nil, nil when no record exists for the id.
	FindByID(ctx context.Context, id int64) (*QuizRecord, error)
	// ListRecent returns at most limit items ordered by creation time
	// descending, plus the total row count.
	ListRecent(ctx context.Context, limit int) ([]HistoryItem, int, error)
}

// ArticleFetcher retrieves raw HTML for a Wikipedia URL.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ArticleExtractor turns raw HTML into a cleaned Article.
type ArticleExtractor interface {
	Extract(url, rawHTML string) (*Article, error)
}

// QuizGenerator produces a quiz for an extracted article. The remote-model
// implementation may fail; the rule-based one never does. Callers chain them
// with a try/fallback policy.
type QuizGenerator interface {
	Generate(ctx context.Context, article *Article) (*GeneratedQuiz, error)
}
