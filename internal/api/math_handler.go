package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/edu-api/internal/api/shared"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/logger"
	"github.com/phrazzld/edu-api/internal/service"
	"github.com/phrazzld/edu-api/internal/service/grading"
)

// DefaultProblemCount is the batch size used when a request names none.
const DefaultProblemCount = 10

// AnswerChecker grades submitted answers.
type AnswerChecker interface {
	Check(ctx context.Context, sub grading.Submission) (*grading.Result, error)
}

// MathHandler handles the math practice endpoints.
type MathHandler struct {
	problems     service.ProblemService
	explanations service.ExplanationService
	checker      AnswerChecker
	logger       *slog.Logger
}

// NewMathHandler creates a new MathHandler with the given dependencies.
func NewMathHandler(
	problems service.ProblemService,
	explanations service.ExplanationService,
	checker AnswerChecker,
	logger *slog.Logger,
) *MathHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MathHandler{
		problems:     problems,
		explanations: explanations,
		checker:      checker,
		logger:       logger.With("component", "math_handler"),
	}
}

// GetProblems handles GET /math/problems?age&count&rules.
func (h *MathHandler) GetProblems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	age, err := ageParam(r)
	if err != nil {
		HandleAPIError(w, r, err, msgInvalidRequest)
		return
	}
	count, err := queryInt(r, "count", DefaultProblemCount)
	if err != nil {
		HandleAPIError(w, r, err, msgInvalidRequest)
		return
	}

	result, err := h.problems.GenerateBatch(r.Context(), service.GenerateRequest{
		Age:   age,
		Count: count,
		Rules: queryList(r, "rules"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("problems served",
		"batch_id", result.BatchID,
		"count", count,
		"initial", len(result.Problems))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetRemaining handles GET /math/problems/{batch_id}/remaining.
func (h *MathHandler) GetRemaining(w http.ResponseWriter, r *http.Request) {
	batchID, err := getPathParam(r, "batch_id")
	if err != nil {
		HandleAPIError(w, r, err, msgInvalidRequest)
		return
	}

	problems, err := h.problems.Remaining(r.Context(), batchID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, problems)
}

// CheckAnswer handles POST /math/check.
func (h *MathHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var sub grading.Submission
	if err := shared.DecodeJSON(r, &sub); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}
	if err := shared.ValidateRequest(&sub); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.checker.Check(r.Context(), sub)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Explain handles POST /math/explain.
func (h *MathHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	if !req.Type.Valid() {
		HandleAPIError(w, r, domain.ErrInvalidProblemType, "")
		return
	}

	exp, err := h.explanations.Explain(r.Context(), generation.ExplanationRequest{
		Question: req.Question,
		Answer:   req.Answer,
		Type:     req.Type,
		Age:      req.Age,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tips := exp.Tips
	if tips == nil {
		tips = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ExplainResponse{
		Explanation: exp.Explanation,
		Tips:        tips,
		Example:     exp.Example,
	})
}

// GetSimilar handles GET /math/similar?age&type&count.
func (h *MathHandler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	age, err := ageParam(r)
	if err != nil {
		HandleAPIError(w, r, err, msgInvalidRequest)
		return
	}
	count, err := queryInt(r, "count", service.DefaultSimilarCount)
	if err != nil {
		HandleAPIError(w, r, err, msgInvalidRequest)
		return
	}
	typ := domain.ProblemType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = domain.ProblemTypeBasic
	}

	problems, err := h.problems.Similar(r.Context(), age, typ, count)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, problems)
}
