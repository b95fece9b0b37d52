// Package study decodes generated study material (flashcards and
// multiple-choice quizzes) from structured LLM output. Prompts are supplied by
// the caller; this package only owns the response shapes and their validation.
package study

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-completion/internal/generation"
)

// OptionsPerQuestion is the number of answer options every quiz question has.
const OptionsPerQuestion = 4

var validate = validator.New()

// Flashcard is a single question/answer pair.
type Flashcard struct {
	ID       string `json:"id"       validate:"required"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer indexes Options
// and must be present in the generated payload.
type QuizQuestion struct {
	ID            string   `json:"id"                      validate:"required"`
	Question      string   `json:"question"                validate:"required"`
	Options       []string `json:"options"                 validate:"len=4,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer"           validate:"required,gte=0,lte=3"`
	Justification string   `json:"justification,omitempty"`
}

// Answer returns the index of the correct option.
func (q QuizQuestion) Answer() int {
	if q.CorrectAnswer == nil {
		return -1
	}
	return *q.CorrectAnswer
}

// Content is a complete set of study material.
type Content struct {
	Flashcards    []Flashcard    `json:"flashcards"`
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
}

type flashcardSet struct {
	Flashcards []Flashcard `json:"flashcards" validate:"dive"`
}

type quizSet struct {
	Questions []QuizQuestion `json:"questions" validate:"dive"`
}

// TextInvoker is the part of generation.Client used to generate material.
type TextInvoker interface {
	InvokeText(ctx context.Context, prompt string, structured bool, candidates ...string) (string, error)
}

// ParseFlashcards decodes a {"flashcards": [...]} object. The key must be
// present; a null list yields no flashcards.
func ParseFlashcards(text string) ([]Flashcard, error) {
	set, err := generation.ParseStructured[flashcardSet](text, generation.RequireKeys("flashcards"))
	if err != nil {
		return nil, err
	}
	if err := validateShape(set); err != nil {
		return nil, err
	}
	if set.Flashcards == nil {
		return []Flashcard{}, nil
	}
	return set.Flashcards, nil
}

// ParseQuiz decodes a {"questions": [...]} object. The key must be present;
// a null list yields no questions.
func ParseQuiz(text string) ([]QuizQuestion, error) {
	set, err := generation.ParseStructured[quizSet](text, generation.RequireKeys("questions"))
	if err != nil {
		return nil, err
	}
	if err := validateShape(set); err != nil {
		return nil, err
	}
	if set.Questions == nil {
		return []QuizQuestion{}, nil
	}
	return set.Questions, nil
}

// GenerateFlashcards runs a structured invocation and decodes flashcards.
func GenerateFlashcards(ctx context.Context, invoker TextInvoker, prompt string) ([]Flashcard, error) {
	text, err := invoker.InvokeText(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	return ParseFlashcards(text)
}

// GenerateQuiz runs a structured invocation and decodes quiz questions.
func GenerateQuiz(ctx context.Context, invoker TextInvoker, prompt string) ([]QuizQuestion, error) {
	text, err := invoker.InvokeText(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	return ParseQuiz(text)
}

// Generate produces flashcards and then quiz questions from their prompts.
// Either failure aborts the whole set.
func Generate(ctx context.Context, invoker TextInvoker, flashcardsPrompt, quizPrompt string) (*Content, error) {
	flashcards, err := GenerateFlashcards(ctx, invoker, flashcardsPrompt)
	if err != nil {
		return nil, err
	}

	questions, err := GenerateQuiz(ctx, invoker, quizPrompt)
	if err != nil {
		return nil, err
	}

	return &Content{Flashcards: flashcards, QuizQuestions: questions}, nil
}

func validateShape(v any) error {
	if err := validate.Struct(v); err != nil {
		return &generation.InvalidStructureError{Reason: err.Error(), Err: err}
	}
	return nil
}
