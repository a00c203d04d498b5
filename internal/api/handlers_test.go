package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/api/middleware"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/memstore"
	"github.com/phrazzld/edu-api/internal/service"
	"github.com/phrazzld/edu-api/internal/service/auth"
	"github.com/phrazzld/edu-api/internal/service/grading"
	"github.com/phrazzld/edu-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router  http.Handler
	batches *memstore.BatchStore
	jwt     auth.JWTService
	header  string
}

// newAPIFixture wires the real services over an in-memory store. The event
// emitter has no handlers, so batches complete inline before the response.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	return newAPIFixtureWithConfig(t, service.ProblemServiceConfig{})
}

func newAPIFixtureWithConfig(t *testing.T, problemCfg service.ProblemServiceConfig) *apiFixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	batches := memstore.NewBatchStore(log)
	basic := generation.NewBasicGenerator(generation.NewSeededRand(7), log)
	catalog, err := generation.DefaultCatalog()
	require.NoError(t, err)
	words, err := generation.NewWordGenerator(catalog, basic, nil, generation.NewSeededRand(8), log)
	require.NoError(t, err)
	factory := task.NewBatchCompletionTaskFactory(
		batches, generation.NewFallbackWordSource(nil, words, log), basic, log)

	problems, err := service.NewProblemService(
		batches, basic, words, events.NewInMemoryEventEmitter(log), factory, problemCfg, log)
	require.NoError(t, err)

	cfg := auth.DefaultJWTConfig()
	jwtService := auth.RequireTestJWTService(t)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	RegisterRoutes(r,
		NewMathHandler(problems, service.NewExplanationService(nil, log), grading.NewChecker(batches, log), log),
		NewAuthHandler(jwtService, &cfg, log),
		middleware.NewAuthMiddleware(jwtService, log).Authenticate,
	)

	return &apiFixture{
		router:  r,
		batches: batches,
		jwt:     jwtService,
		header:  auth.GenerateAuthHeaderForTestingT(t, uuid.New()),
	}
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", f.header)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) generate(t *testing.T, age, count int) service.BatchResult {
	t.Helper()
	rec := f.do(t, http.MethodGet,
		"/api/education/math/problems?age="+strconv.Itoa(age)+"&count="+strconv.Itoa(count), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result service.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.NotEmpty(t, body.TraceID)
	return body.Error
}

func TestHealth(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestEducationRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/education/math/problems?age=8", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProblems(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	result := f.generate(t, 8, 10)

	assert.NotEmpty(t, result.BatchID)
	require.Len(t, result.Problems, domain.InitialSliceSize(10))
	for i, p := range result.Problems {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, domain.ProblemTypeBasic, p.Type)
		assert.Equal(t, result.BatchID, p.BatchID)
		assert.Equal(t, 8, p.Age)
	}
}

func TestGetProblemsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{"too many", "?age=8&count=101", http.StatusBadRequest, "Maksimalt 100 oppgaver er tillatt"},
		{"zero count", "?age=8&count=0", http.StatusBadRequest, msgInvalidCount},
		{"non numeric count", "?age=8&count=ten", http.StatusBadRequest, msgInvalidRequest},
		{"missing age", "?count=5", http.StatusBadRequest, msgInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newAPIFixture(t)
			rec := f.do(t, http.MethodGet, "/api/education/math/problems"+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, rec))
		})
	}
}

func TestGetProblemsConfiguredLimit(t *testing.T) {
	t.Parallel()
	f := newAPIFixtureWithConfig(t, service.ProblemServiceConfig{MaxCount: 20})

	rec := f.do(t, http.MethodGet, "/api/education/math/problems?age=8&count=21", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Maksimalt 20 oppgaver er tillatt", errorMessage(t, rec))

	f.generate(t, 8, 20)
}

// recordingProblems captures the requests a handler passes to the service.
type recordingProblems struct {
	service.ProblemService
	requests []service.GenerateRequest
}

func (p *recordingProblems) GenerateBatch(_ context.Context, req service.GenerateRequest) (*service.BatchResult, error) {
	p.requests = append(p.requests, req)
	return &service.BatchResult{BatchID: "batch_test", Problems: []domain.Problem{}}, nil
}

func TestGetProblemsKeepsRulesWhole(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	problems := &recordingProblems{}
	h := NewMathHandler(problems, nil, nil, log)

	q := url.Values{}
	q.Add("age", "9")
	q.Add("rules", "Bruk tall mellom 1 og 10, ikke større")
	q.Add("rules", "  ")
	q.Add("rules", " Bruk epler ")
	req := httptest.NewRequest(http.MethodGet, "/api/education/math/problems?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.GetProblems(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, problems.requests, 1)
	assert.Equal(t, []string{"Bruk tall mellom 1 og 10, ikke større", "Bruk epler"}, problems.requests[0].Rules)
	assert.Equal(t, DefaultProblemCount, problems.requests[0].Count)
}

func TestGetProblemsClampsAge(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	result := f.generate(t, 15, 3)
	for _, p := range result.Problems {
		assert.Equal(t, domain.MaxAge, p.Age)
	}
}

func TestGetRemaining(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	result := f.generate(t, 9, 10)

	rec := f.do(t, http.MethodGet, "/api/education/math/problems/"+result.BatchID+"/remaining", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var problems []domain.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problems))
	require.Len(t, problems, 10)
	for i, p := range problems {
		assert.Equal(t, i+1, p.ID)
	}
	assert.Equal(t, result.Problems[0], problems[0])
}

func TestGetRemainingUnknownBatch(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/education/math/problems/no-such-batch/remaining", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCheckAnswer(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	result := f.generate(t, 7, 4)
	first := result.Problems[0]
	correct := domain.FormatAnswer(first.Answer)
	wrong := domain.FormatAnswer(first.Answer + 1)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCorrect bool
		wantError   string
	}{
		{
			name:        "correct number",
			body:        `{"batch_id":"` + result.BatchID + `","problem_id":1,"answer":` + correct + `}`,
			wantStatus:  http.StatusOK,
			wantCorrect: true,
		},
		{
			name:        "correct string",
			body:        `{"batch_id":"` + result.BatchID + `","problem_id":1,"answer":"` + correct + `"}`,
			wantStatus:  http.StatusOK,
			wantCorrect: true,
		},
		{
			name:       "wrong answer",
			body:       `{"batch_id":"` + result.BatchID + `","problem_id":1,"answer":` + wrong + `}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown problem",
			body:       `{"batch_id":"` + result.BatchID + `","problem_id":99,"answer":1}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Oppgave ikke funnet",
		},
		{
			name:       "unknown batch",
			body:       `{"batch_id":"nope","problem_id":1,"answer":1}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Oppgave ikke funnet",
		},
		{
			name:       "malformed answer",
			body:       `{"batch_id":"` + result.BatchID + `","problem_id":1,"answer":"fem"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgMalformedAnswer,
		},
		{
			name:       "missing batch id",
			body:       `{"problem_id":1,"answer":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Ugyldig BatchID: må fylles ut",
		},
		{
			name:       "invalid json",
			body:       `{"batch_id":`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := f.do(t, http.MethodPost, "/api/education/math/check", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, rec))
				return
			}
			var res grading.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.wantCorrect, res.Correct)
			assert.Equal(t, first.Answer, res.CorrectAnswer)
			if tt.wantCorrect {
				assert.Contains(t, res.Feedback, "Riktig!")
			} else {
				assert.Contains(t, res.Feedback, "Det riktige svaret er "+correct)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	t.Run("basic problem uses local rules", func(t *testing.T) {
		t.Parallel()
		rec := f.do(t, http.MethodPost, "/api/education/math/explain",
			`{"question":"Hva er 7 + 5?","answer":12,"type":"basic","age":7}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res ExplainResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Contains(t, res.Explanation, "legger sammen")
		require.NotNil(t, res.Example)
		assert.Equal(t, "7 + 5 = 12", *res.Example)
		assert.NotEmpty(t, res.Tips)
	})

	t.Run("word problem falls back to generic text", func(t *testing.T) {
		t.Parallel()
		rec := f.do(t, http.MethodPost, "/api/education/math/explain",
			`{"question":"Ola har 6 epler og deler dem med 2 venner.","answer":3,"type":"word_problem","age":8}`)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, rec.Body.String(), `"example":null`)
		var res ExplainResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Len(t, res.Tips, 3)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		rec := f.do(t, http.MethodPost, "/api/education/math/explain",
			`{"question":"2 + 2","answer":4,"type":"algebra","age":8}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing question", func(t *testing.T) {
		t.Parallel()
		rec := f.do(t, http.MethodPost, "/api/education/math/explain", `{"answer":4,"type":"basic"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetSimilar(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
		wantType   domain.ProblemType
	}{
		{"default count", "?age=8&type=basic", http.StatusOK, service.DefaultSimilarCount, domain.ProblemTypeBasic},
		{"word problems", "?age=10&type=word_problem&count=3", http.StatusOK, 3, domain.ProblemTypeWordProblem},
		{"capped count", "?age=8&type=basic&count=50", http.StatusOK, service.MaxSimilarCount, domain.ProblemTypeBasic},
		{"unsupported type", "?age=8&type=geometry", http.StatusBadRequest, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := f.do(t, http.MethodGet, "/api/education/math/similar"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var problems []domain.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problems))
			require.Len(t, problems, tt.wantCount)
			for i, p := range problems {
				assert.Equal(t, i+1, p.ID)
				assert.Empty(t, p.BatchID)
				if tt.wantType == domain.ProblemTypeBasic {
					assert.Equal(t, tt.wantType, p.Type)
				}
			}
		})
	}
}
