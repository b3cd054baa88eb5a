package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"
)

// StringSlice stores a []string as a JSONB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	bytesToParse, err := coerceJSONBytes(value)
	if err != nil {
		return fmt.Errorf("StringSlice: %w", err)
	}
	if bytesToParse == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// QuestionList stores the quiz payload as a JSONB column.
type QuestionList []domain.Question

func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

func (q *QuestionList) Scan(value interface{}) error {
	bytesToParse, err := coerceJSONBytes(value)
	if err != nil {
		return fmt.Errorf("QuestionList: %w", err)
	}
	if bytesToParse == nil {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// EntityMap stores the key_entities object as a JSONB column.
type EntityMap domain.KeyEntities

func (e EntityMap) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(domain.KeyEntities(e))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

func (e *EntityMap) Scan(value interface{}) error {
	bytesToParse, err := coerceJSONBytes(value)
	if err != nil {
		return fmt.Errorf("EntityMap: %w", err)
	}
	if bytesToParse == nil {
		*e = EntityMap{}
		return nil
	}
	return json.Unmarshal(bytesToParse, (*domain.KeyEntities)(e))
}

func coerceJSONBytes(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// WikiQuiz is the database row for one generated quiz.
type WikiQuiz struct {
	ID            int64        `db:"id"`
	URL           string       `db:"url"`
	Title         string       `db:"title"`
	Summary       string       `db:"summary"`
	KeyEntities   EntityMap    `db:"key_entities"`
	Sections      StringSlice  `db:"sections"`
	Quiz          QuestionList `db:"quiz"`
	RelatedTopics StringSlice  `db:"related_topics"`
	RawHTML       string       `db:"raw_html"`
	CreatedAt     time.Time    `db:"created_at"`
}

func (WikiQuiz) TableName() string {
	return "wiki_quizzes"
}
