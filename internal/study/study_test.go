package study_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/phrazzld/scry-completion/internal/mocks"
	"github.com/phrazzld/scry-completion/internal/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flashcardsJSON = "```json\n" + `{
  "flashcards": [
    {"id": "fc1", "question": "What is a goroutine?", "answer": "A lightweight thread managed by the Go runtime."},
    {"id": "fc2", "question": "What does defer do?", "answer": "Schedules a call to run when the function returns."}
  ]
}` + "\n```"

const quizJSON = `{
  "questions": [
    {
      "id": "q1",
      "question": "Which keyword starts a goroutine?",
      "options": ["go", "async", "spawn", "thread"],
      "correctAnswer": 0,
      "justification": "The go statement starts a new goroutine."
    }
  ]
}`

func TestParseFlashcards(t *testing.T) {
	t.Parallel()

	cards, err := study.ParseFlashcards(flashcardsJSON)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "fc1", cards[0].ID)
	assert.Equal(t, "What does defer do?", cards[1].Question)
}

func TestParseFlashcardsNullListIsEmpty(t *testing.T) {
	t.Parallel()

	cards, err := study.ParseFlashcards(`{"flashcards": null}`)

	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestParseRejectsMissingList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		parse func(string) error
		text  string
	}{
		{
			name:  "flashcards key absent",
			parse: func(text string) error { _, err := study.ParseFlashcards(text); return err },
			text:  `{"something_else": true}`,
		},
		{
			name:  "flashcards as top-level array",
			parse: func(text string) error { _, err := study.ParseFlashcards(text); return err },
			text:  `[{"id": "1", "question": "Q?", "answer": "A"}]`,
		},
		{
			name:  "questions as top-level array",
			parse: func(text string) error { _, err := study.ParseQuiz(text); return err },
			text:  `[{"id": "q1"}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.parse(tc.text)

			var structErr *generation.InvalidStructureError
			require.ErrorAs(t, err, &structErr)
			assert.Contains(t, structErr.Reason, "missing required field(s)")
		})
	}
}

func TestParseFlashcardsRejectsIncompleteCard(t *testing.T) {
	t.Parallel()

	_, err := study.ParseFlashcards(`{"flashcards": [{"id": "fc1", "question": "Q?"}]}`)

	var structErr *generation.InvalidStructureError
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, structErr.Reason, "Answer")
}

func TestParseQuiz(t *testing.T) {
	t.Parallel()

	questions, err := study.ParseQuiz(quizJSON)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Len(t, questions[0].Options, study.OptionsPerQuestion)
	require.NotNil(t, questions[0].CorrectAnswer)
	assert.Equal(t, 0, questions[0].Answer())
	assert.NotEmpty(t, questions[0].Justification)
}

func TestParseQuizRejectsInvalidQuestions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
	}{
		{
			name: "three options",
			text: `{"questions": [{"id": "q1", "question": "Q?", "options": ["a", "b", "c"], "correctAnswer": 0}]}`,
		},
		{
			name: "answer out of range",
			text: `{"questions": [{"id": "q1", "question": "Q?", "options": ["a", "b", "c", "d"], "correctAnswer": 4}]}`,
		},
		{
			name: "missing correct answer",
			text: `{"questions": [{"id": "q1", "question": "Q?", "options": ["a", "b", "c", "d"]}]}`,
		},
		{
			name: "empty option",
			text: `{"questions": [{"id": "q1", "question": "Q?", "options": ["a", "", "c", "d"], "correctAnswer": 1}]}`,
		},
		{
			name: "not an object",
			text: `[{"id": "q1"}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := study.ParseQuiz(tc.text)
			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		})
	}
}

func newClient(t *testing.T, completer generation.Completer) *generation.Client {
	t.Helper()

	client, err := generation.NewClient(completer, generation.Config{
		Candidates: []string{"small", "large"},
		RetryDelay: time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	completer := mocks.NewMockCompleter()
	completer.CompleteFn = func(ctx context.Context, req generation.CompletionRequest) (string, error) {
		if req.Model == "small" {
			return "", errors.New("input token limit exceeded")
		}
		if req.Prompt == "cards please" {
			return flashcardsJSON, nil
		}
		return quizJSON, nil
	}

	content, err := study.Generate(context.Background(), newClient(t, completer), "cards please", "quiz please")

	require.NoError(t, err)
	assert.Len(t, content.Flashcards, 2)
	assert.Len(t, content.QuizQuestions, 1)
	assert.Equal(t, []string{"small", "large", "small", "large"}, completer.Models())
}

func TestGenerateStopsOnFlashcardFailure(t *testing.T) {
	t.Parallel()

	completer := mocks.NewMockCompleter().
		On("small", mocks.Reply("I cannot help with that.")).
		On("large", mocks.Reply(quizJSON))

	content, err := study.Generate(context.Background(), newClient(t, completer), "cards please", "quiz please")

	require.Error(t, err)
	assert.Nil(t, content)

	var invErr *generation.InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, generation.KindStructuralInvalid, invErr.Kind)
	assert.Equal(t, 0, completer.CallCount("large"))
}
