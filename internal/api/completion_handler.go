package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-completion/internal/api/shared"
	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/phrazzld/scry-completion/internal/platform/logger"
	"github.com/phrazzld/scry-completion/internal/study"
)

// Invoker runs resilient structured-generation invocations.
// *generation.Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, req generation.InvokeRequest) (*generation.Result, error)
	study.TextInvoker
}

// CompletionRequest is the body of POST /api/completions.
type CompletionRequest struct {
	Prompt     string   `json:"prompt"               validate:"required"`
	Structured bool     `json:"structured"`
	Candidates []string `json:"candidates,omitempty" validate:"omitempty,max=10,dive,required"`
}

// CompletionResponse is returned for a successful invocation.
type CompletionResponse struct {
	Text      string         `json:"text"`
	Object    map[string]any `json:"object,omitempty"`
	Candidate string         `json:"candidate"`
	Attempts  int            `json:"attempts"`
}

// StudyRequest is the body of the study-material endpoints.
type StudyRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// FlashcardsResponse is returned by POST /api/study/flashcards.
type FlashcardsResponse struct {
	Flashcards []study.Flashcard `json:"flashcards"`
}

// QuizResponse is returned by POST /api/study/quiz.
type QuizResponse struct {
	Questions []study.QuizQuestion `json:"questions"`
}

// CompletionHandler serves the generation endpoints.
type CompletionHandler struct {
	invoker Invoker
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(invoker Invoker) *CompletionHandler {
	return &CompletionHandler{invoker: invoker}
}

// CreateCompletion handles POST /api/completions requests
func (h *CompletionHandler) CreateCompletion(w http.ResponseWriter, r *http.Request) {
	var req CompletionRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.invoker.Invoke(r.Context(), generation.InvokeRequest{
		Prompt:     req.Prompt,
		Structured: req.Structured,
		Candidates: req.Candidates,
	})
	if err != nil {
		respondWithInvocationError(w, r, err)
		return
	}

	requestLogger(r).Info("completion served",
		"candidate", result.Candidate,
		"attempts", result.Attempts,
		"structured", req.Structured)

	shared.RespondWithJSON(w, r, http.StatusOK, CompletionResponse{
		Text:      result.Text,
		Object:    result.Object,
		Candidate: result.Candidate,
		Attempts:  result.Attempts,
	})
}

// GenerateFlashcards handles POST /api/study/flashcards requests
func (h *CompletionHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req StudyRequest
	if !h.decode(w, r, &req) {
		return
	}

	flashcards, err := study.GenerateFlashcards(r.Context(), h.invoker, req.Prompt)
	if err != nil {
		respondWithInvocationError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{Flashcards: flashcards})
}

// GenerateQuiz handles POST /api/study/quiz requests
func (h *CompletionHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req StudyRequest
	if !h.decode(w, r, &req) {
		return
	}

	questions, err := study.GenerateQuiz(r.Context(), h.invoker, req.Prompt)
	if err != nil {
		respondWithInvocationError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizResponse{Questions: questions})
}

// decode parses and validates the request body, writing a 4xx response on
// failure.
func (h *CompletionHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
				"Request body too large", err, shared.WithElevatedLogLevel())
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}

	return true
}

func respondWithInvocationError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	opts := []shared.ResponseOption{shared.WithKind(FailureKind(err))}
	if status == http.StatusUnprocessableEntity {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	ctx := logger.WithContext(r.Context(), requestLogger(r))
	shared.RespondWithErrorAndLog(w, r.WithContext(ctx), status, GetSafeErrorMessage(err), err, opts...)
}

// requestLogger returns the request logger, tagged with the authenticated
// subject when there is one.
func requestLogger(r *http.Request) *slog.Logger {
	log := logger.FromContext(r.Context())
	if subject, ok := shared.GetSubject(r.Context()); ok {
		log = log.With("subject", subject)
	}
	return log
}
