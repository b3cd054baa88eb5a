package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository"
)

const testURL = "https://en.wikipedia.org/wiki/Alan_Turing"

func testArticle() *domain.Article {
	return &domain.Article{
		URL:      testURL,
		Title:    "Alan Turing",
		Summary:  "Alan Turing was a mathematician.",
		Content:  "Alan Turing was a mathematician who worked on early computing machines.",
		Sections: []string{"Early life", "Career"},
		RawHTML:  "<html>...</html>",
	}
}

func testGenerated() *domain.GeneratedQuiz {
	return &domain.GeneratedQuiz{
		Quiz: []domain.Question{{
			Question:    "What was Alan Turing's field?",
			Options:     []string{"Mathematics", "Painting", "Opera", "Botany"},
			Answer:      "Mathematics",
			Difficulty:  domain.DifficultyEasy,
			Explanation: "Stated in the article.",
		}},
		KeyEntities:   domain.KeyEntities{People: []string{"Alan Turing"}, Organizations: []string{}, Locations: []string{}},
		RelatedTopics: []string{"Cryptography"},
	}
}

func testRecord() *domain.QuizRecord {
	g := testGenerated()
	return &domain.QuizRecord{
		ID:            7,
		URL:           testURL,
		Title:         "Alan Turing",
		Summary:       "Alan Turing was a mathematician.",
		KeyEntities:   g.KeyEntities,
		Sections:      []string{"Early life", "Career"},
		Quiz:          g.Quiz,
		RelatedTopics: g.RelatedTopics,
		CreatedAt:     time.Now(),
	}
}

func newTestService() (*quizService, *MockQuizRepository, *MockArticleFetcher, *MockArticleExtractor, *MockQuizGenerator, *MockQuizGenerator) {
	repo := new(MockQuizRepository)
	fetcher := new(MockArticleFetcher)
	extractor := new(MockArticleExtractor)
	generator := new(MockQuizGenerator)
	fallback := new(MockQuizGenerator)
	svc := NewQuizService(repo, fetcher, extractor, generator, fallback).(*quizService)
	return svc, repo, fetcher, extractor, generator, fallback
}

func TestGenerateQuiz_InvalidURL(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()

	for _, url := range []string{"", "   ", "https://example.com/article", "not a url"} {
		_, err := svc.GenerateQuiz(context.Background(), url)

		require.Error(t, err, "url %q should be rejected", url)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
		assert.Equal(t, "Invalid URL: Must be a Wikipedia URL", domainErr.Message)
	}
	repo.AssertNotCalled(t, "FindByURL")
}

func TestGenerateQuiz_ReturnsStoredRecord(t *testing.T) {
	svc, repo, fetcher, _, _, _ := newTestService()
	record := testRecord()
	repo.On("FindByURL", mock.Anything, testURL).Return(record, nil)

	resp, err := svc.GenerateQuiz(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, record.ID, resp.ID)
	assert.Equal(t, record.Title, resp.Title)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_TrimsURLBeforeLookup(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	record := testRecord()
	repo.On("FindByURL", mock.Anything, testURL).Return(record, nil)

	resp, err := svc.GenerateQuiz(context.Background(), "  "+testURL+"  ")

	require.NoError(t, err)
	assert.Equal(t, record.ID, resp.ID)
}

func TestGenerateQuiz_FullPipeline(t *testing.T) {
	svc, repo, fetcher, extractor, generator, fallback := newTestService()

	repo.On("FindByURL", mock.Anything, testURL).Return(nil, nil)
	fetcher.On("Fetch", mock.Anything, testURL).Return("<html>raw</html>", nil)
	extractor.On("Extract", testURL, "<html>raw</html>").Return(testArticle(), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return(testGenerated(), nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.QuizRecord")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(*domain.QuizRecord)
			record.ID = 42
			record.CreatedAt = time.Now()
		}).Return(nil)

	resp, err := svc.GenerateQuiz(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "Alan Turing", resp.Title)
	assert.Len(t, resp.Quiz, 1)
	assert.Equal(t, []string{"Alan Turing"}, resp.KeyEntities.People)
	fallback.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestGenerateQuiz_SynthesisFailureUsesFallback(t *testing.T) {
	svc, repo, fetcher, extractor, generator, fallback := newTestService()

	repo.On("FindByURL", mock.Anything, testURL).Return(nil, nil)
	fetcher.On("Fetch", mock.Anything, testURL).Return("<html>raw</html>", nil)
	extractor.On("Extract", testURL, "<html>raw</html>").Return(testArticle(), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("model timeout"))
	fallback.On("Generate", mock.Anything, mock.Anything).Return(testGenerated(), nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.QuizRecord")).Return(nil)

	resp, err := svc.GenerateQuiz(context.Background(), testURL)

	require.NoError(t, err, "synthesis failure must not fail the request")
	assert.NotEmpty(t, resp.Quiz)
	fallback.AssertExpectations(t)
}

func TestGenerateQuiz_FetchErrorPropagates(t *testing.T) {
	svc, repo, fetcher, _, _, _ := newTestService()

	repo.On("FindByURL", mock.Anything, testURL).Return(nil, nil)
	fetcher.On("Fetch", mock.Anything, testURL).Return("", domain.NewFetchBlockedError(testURL))

	_, err := svc.GenerateQuiz(context.Background(), testURL)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeFetchBlocked, domainErr.Code)
}

func TestGenerateQuiz_DuplicateInsertReturnsWinner(t *testing.T) {
	svc, repo, fetcher, extractor, generator, _ := newTestService()
	winner := testRecord()

	// First two lookups miss; after the insert conflict the winner appears.
	repo.On("FindByURL", mock.Anything, testURL).Return(nil, nil).Twice()
	repo.On("FindByURL", mock.Anything, testURL).Return(winner, nil).Once()
	fetcher.On("Fetch", mock.Anything, testURL).Return("<html>raw</html>", nil)
	extractor.On("Extract", testURL, "<html>raw</html>").Return(testArticle(), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return(testGenerated(), nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(repository.ErrDuplicateURL)

	resp, err := svc.GenerateQuiz(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, resp.ID)
	repo.AssertExpectations(t)
}

func TestGetHistory(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	items := []domain.HistoryItem{
		{ID: 2, URL: "https://en.wikipedia.org/wiki/B", Title: "B", CreatedAt: time.Now()},
		{ID: 1, URL: "https://en.wikipedia.org/wiki/A", Title: "A", CreatedAt: time.Now().Add(-time.Hour)},
	}
	repo.On("ListRecent", mock.Anything, historyLimit).Return(items, 2, nil)

	resp, err := svc.GetHistory(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Quizzes, 2)
	assert.Equal(t, int64(2), resp.Quizzes[0].ID)
	repo.AssertExpectations(t)
}

func TestGetHistory_StorageError(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	repo.On("ListRecent", mock.Anything, historyLimit).Return(nil, 0, errors.New("db down"))

	_, err := svc.GetHistory(context.Background())

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeStorage, domainErr.Code)
}

func TestGetQuiz(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	record := testRecord()
	repo.On("FindByID", mock.Anything, int64(7)).Return(record, nil)

	resp, err := svc.GetQuiz(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Alan Turing", resp.Title)
}

func TestGetQuiz_NotFound(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()
	repo.On("FindByID", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.GetQuiz(context.Background(), 99)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}
