package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/repository"
)

const historyLimit = 50

// QuizService defines the interface for quiz generation operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error)
	GetHistory(ctx context.Context) (*dto.HistoryResponse, error)
	GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	fetcher   domain.ArticleFetcher
	extractor domain.ArticleExtractor
	generator domain.QuizGenerator
	fallback  domain.QuizGenerator
	group     singleflight.Group
}

// NewQuizService creates a new instance of quizService. generator is the
// remote-model synthesizer; fallback is the rule-based generator used when
// synthesis fails in any way.
func NewQuizService(
	repo domain.QuizRepository,
	fetcher domain.ArticleFetcher,
	extractor domain.ArticleExtractor,
	generator domain.QuizGenerator,
	fallback domain.QuizGenerator,
) QuizService {
	return &quizService{
		repo:      repo,
		fetcher:   fetcher,
		extractor: extractor,
		generator: generator,
		fallback:  fallback,
	}
}

// GenerateQuiz implements QuizService. Generation is idempotent per URL:
// a stored record is returned unchanged, without re-scraping. Concurrent
// requests for the same new URL share one in-flight generation.
func (s *quizService) GenerateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error) {
	url = strings.TrimSpace(url)
	if url == "" || !strings.Contains(url, "wikipedia.org") {
		return nil, domain.NewInvalidInputError("Invalid URL: Must be a Wikipedia URL")
	}

	existing, err := s.repo.FindByURL(ctx, url)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up quiz", err)
	}
	if existing != nil {
		return dto.FromRecord(existing), nil
	}

	result, err, _ := s.group.Do(url, func() (interface{}, error) {
		return s.generate(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return dto.FromRecord(result.(*domain.QuizRecord)), nil
}

func (s *quizService) generate(ctx context.Context, url string) (*domain.QuizRecord, error) {
	l := logger.Get()

	// A concurrent flight may have finished between the caller's lookup
	// and this one.
	existing, err := s.repo.FindByURL(ctx, url)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up quiz", err)
	}
	if existing != nil {
		return existing, nil
	}

	rawHTML, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	article, err := s.extractor.Extract(url, rawHTML)
	if err != nil {
		return nil, err
	}

	generated := s.synthesize(ctx, article)

	record := &domain.QuizRecord{
		URL:           url,
		Title:         article.Title,
		Summary:       article.Summary,
		KeyEntities:   generated.KeyEntities,
		Sections:      article.Sections,
		Quiz:          generated.Quiz,
		RelatedTopics: generated.RelatedTopics,
		RawHTML:       article.RawHTML,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateURL) {
			// Lost the insert race; return the winning row.
			winner, ferr := s.repo.FindByURL(ctx, url)
			if ferr == nil && winner != nil {
				l.Info("Duplicate generation resolved by re-read", zap.String("url", url))
				return winner, nil
			}
		}
		return nil, domain.NewStorageError("Failed to store generated quiz", err)
	}

	l.Info("Quiz generated and stored",
		zap.Int64("id", record.ID),
		zap.String("url", url),
		zap.String("title", record.Title),
		zap.Int("questions", len(record.Quiz)))
	return record, nil
}

// synthesize runs the remote model and absorbs every failure into the
// deterministic fallback. Generate-quiz as a whole must never fail merely
// because the model call failed.
func (s *quizService) synthesize(ctx context.Context, article *domain.Article) *domain.GeneratedQuiz {
	generated, err := s.generator.Generate(ctx, article)
	if err == nil {
		return generated
	}

	logger.Get().Warn("Quiz synthesis failed, using fallback generator",
		zap.Error(err),
		zap.String("title", article.Title))

	// The fallback never fails.
	generated, _ = s.fallback.Generate(ctx, article)
	return generated
}

// GetHistory implements QuizService
func (s *quizService) GetHistory(ctx context.Context) (*dto.HistoryResponse, error) {
	items, total, err := s.repo.ListRecent(ctx, historyLimit)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load quiz history", err)
	}
	return dto.FromHistory(items, total), nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load quiz", err)
	}
	if record == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return dto.FromRecord(record), nil
}
