package quizgen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
)

const (
	fallbackMinSentence  = 40
	fallbackMaxQuestions = 5
	fallbackMinQuestions = 3

	// Correct options longer than this are truncated with an ellipsis.
	fallbackOptionLength = 60
)

// Fixed decoy options paired with every statement question.
var fallbackDecoys = [3]string{
	"This statement is unrelated to the article",
	"The article does not discuss this subject",
	"None of the provided options",
}

// FallbackGenerator builds questions directly from extracted sentences.
// It is deterministic, fully offline, and never fails: it is the safety net
// behind the remote model.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Generate implements domain.QuizGenerator.
func (g *FallbackGenerator) Generate(_ context.Context, article *domain.Article) (*domain.GeneratedQuiz, error) {
	sentences := splitFallbackSentences(article.Content)

	var questions []domain.Question
	for i, sentence := range sentences {
		if len(questions) >= fallbackMaxQuestions {
			break
		}
		correct := sentence
		if len(correct) > fallbackOptionLength {
			correct = correct[:fallbackOptionLength] + "..."
		}
		questions = append(questions, domain.Question{
			Question: fmt.Sprintf("Which of the following statements about %s is accurate?", article.Title),
			Options: []string{
				correct,
				fallbackDecoys[0],
				fallbackDecoys[1],
				fallbackDecoys[2],
			},
			Answer:      correct,
			Difficulty:  positionDifficulty(i),
			Explanation: "This statement appears in the article text.",
		})
	}

	// Too little prose: pad with a generic title question so the quiz
	// always has at least three entries.
	for len(questions) < fallbackMinQuestions {
		questions = append(questions, domain.Question{
			Question: "What is the main subject of this article?",
			Options: []string{
				article.Title,
				fallbackDecoys[0],
				fallbackDecoys[1],
				fallbackDecoys[2],
			},
			Answer:      article.Title,
			Difficulty:  positionDifficulty(len(questions)),
			Explanation: "The article is titled \"" + article.Title + "\".",
		})
	}

	logger.Get().Info("Quiz built by fallback generator",
		zap.String("title", article.Title),
		zap.Int("questions", len(questions)))

	return &domain.GeneratedQuiz{
		Quiz: questions,
		KeyEntities: domain.KeyEntities{
			People:        []string{},
			Organizations: []string{},
			Locations:     []string{},
		},
		RelatedTopics: []string{
			"History of " + article.Title,
			"Topics related to " + article.Title,
			article.Title + " in popular culture",
		},
	}, nil
}

// positionDifficulty assigns difficulty by question position: the first two
// are easy, the next two medium, anything further hard.
func positionDifficulty(i int) string {
	switch {
	case i < 2:
		return domain.DifficultyEasy
	case i < 4:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}

func splitFallbackSentences(content string) []string {
	var sentences []string
	for _, raw := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s := strings.TrimSpace(raw)
		if len(s) > fallbackMinSentence {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
