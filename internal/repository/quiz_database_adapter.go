package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"
)

const uniqueViolationCode = "23505"

// ErrDuplicateURL is returned when an insert loses the check-then-insert
// race; the caller re-reads to return the winning row.
var ErrDuplicateURL = errors.New("quiz already exists for url")

const quizColumns = `id, url, title, summary, key_entities, sections, quiz, related_topics, raw_html, created_at`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx over
// Postgres.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// FindByURL implements domain.QuizRepository
func (a *QuizDatabaseAdapter) FindByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	var row models.WikiQuiz
	query := `SELECT ` + quizColumns + ` FROM wiki_quizzes WHERE url = $1`

	err := a.db.GetContext(ctx, &row, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quiz by url %s: %w", url, err)
	}
	return toDomainRecord(&row), nil
}

// FindByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) FindByID(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	var row models.WikiQuiz
	query := `SELECT ` + quizColumns + ` FROM wiki_quizzes WHERE id = $1`

	err := a.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quiz by id %d: %w", id, err)
	}
	return toDomainRecord(&row), nil
}

// Insert implements domain.QuizRepository. The store assigns id and
// created_at; both are written back to the record.
func (a *QuizDatabaseAdapter) Insert(ctx context.Context, record *domain.QuizRecord) error {
	row := toModelRow(record)

	query := `INSERT INTO wiki_quizzes (
		url, title, summary, key_entities, sections, quiz, related_topics, raw_html
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) RETURNING id, created_at`

	err := a.db.QueryRowxContext(ctx, query,
		row.URL,
		row.Title,
		row.Summary,
		row.KeyEntities,
		row.Sections,
		row.Quiz,
		row.RelatedTopics,
		row.RawHTML,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateURL
		}
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// ListRecent implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListRecent(ctx context.Context, limit int) ([]domain.HistoryItem, int, error) {
	var total int
	if err := a.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM wiki_quizzes`); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	type listRow struct {
		ID        int64  `db:"id"`
		URL       string `db:"url"`
		Title     string `db:"title"`
		CreatedAt sql.NullTime `db:"created_at"`
	}

	var rows []listRow
	query := `SELECT id, url, title, created_at
	FROM wiki_quizzes
	ORDER BY created_at DESC
	LIMIT $1`

	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list recent quizzes: %w", err)
	}

	items := make([]domain.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.HistoryItem{
			ID:        r.ID,
			URL:       r.URL,
			Title:     r.Title,
			CreatedAt: r.CreatedAt.Time,
		})
	}
	return items, total, nil
}

func toDomainRecord(row *models.WikiQuiz) *domain.QuizRecord {
	return &domain.QuizRecord{
		ID:            row.ID,
		URL:           row.URL,
		Title:         row.Title,
		Summary:       row.Summary,
		KeyEntities:   domain.KeyEntities(row.KeyEntities),
		Sections:      row.Sections,
		Quiz:          row.Quiz,
		RelatedTopics: row.RelatedTopics,
		RawHTML:       row.RawHTML,
		CreatedAt:     row.CreatedAt,
	}
}

func toModelRow(record *domain.QuizRecord) *models.WikiQuiz {
	return &models.WikiQuiz{
		URL:           record.URL,
		Title:         record.Title,
		Summary:       record.Summary,
		KeyEntities:   models.EntityMap(record.KeyEntities),
		Sections:      models.StringSlice(record.Sections),
		Quiz:          models.QuestionList(record.Quiz),
		RelatedTopics: models.StringSlice(record.RelatedTopics),
		RawHTML:       record.RawHTML,
	}
}
