package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/mathcat/internal/api"
	apperrors "github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/identity"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/repository/memory"
	"github.com/vytor/mathcat/internal/services"
	"github.com/vytor/mathcat/internal/testutil"
	"github.com/vytor/mathcat/internal/testutil/mocks"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type APITestSuite struct {
	suite.Suite
	gw       *mocks.MockGateway
	history  *mocks.MockHistoryQueue
	learners services.LearnerService
	handler  http.Handler
}

func (s *APITestSuite) SetupTest() {
	s.gw = new(mocks.MockGateway)
	s.history = new(mocks.MockHistoryQueue)
	store := identity.NewStore(memory.NewIdentitySlot())
	s.learners = services.NewLearnerService(store, s.gw, s.history, testutil.NewManualScheduler())
	srv := api.NewServer(s.learners, services.NewHistoryService(s.gw), services.NewQuestionService(s.gw), nil)
	s.handler = srv.Routes()
}

func (s *APITestSuite) TearDownTest() {
	s.learners.Close()
}

func (s *APITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APITestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var env errorEnvelope
	s.decode(rec, &env)
	return env.Error.Code
}

func (s *APITestSuite) login() {
	s.gw.On("Login", mock.Anything, "Li Ming", "Ming", "7B").
		Return(&models.Identity{UserID: 3, Name: "Li Ming", AltName: "Ming", ClassLabel: "7B", TotalScore: 50}, nil).Once()
	rec := s.do(http.MethodPost, "/api/login", models.LoginRequest{Name: "Li Ming", AltName: "Ming", ClassLabel: "7B"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *APITestSuite) loadQuestion() *models.Question {
	q := &models.Question{QuestionID: "q1", Topic: "add_sub", DifficultyLevel: "basic", CanonicalText: "2*x+x", DisplayForm: "2x+x"}
	s.gw.On("GenerateQuestion", mock.Anything, int64(3), "add_sub", "basic").Return(q, nil).Once()
	rec := s.do(http.MethodPost, "/api/practice/question", models.QuestionRequest{Topic: "add_sub", DifficultyLevel: "basic"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return q
}

func (s *APITestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *APITestSuite) TestStateRequiresLogin() {
	rec := s.do(http.MethodGet, "/api/state", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(apperrors.ErrCodeUnauthenticated, s.errorCode(rec))
}

func (s *APITestSuite) TestLoginValidation() {
	rec := s.do(http.MethodPost, "/api/login", map[string]string{"name": "a"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(apperrors.ErrCodeValidation, s.errorCode(rec))
}

func (s *APITestSuite) TestLoginAndState() {
	s.login()

	rec := s.do(http.MethodGet, "/api/state", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var state struct {
		Identity models.Identity `json:"identity"`
		Score    int             `json:"score"`
		Tier     struct {
			Stage           int    `json:"stage"`
			RemainingToNext int    `json:"remaining_to_next"`
			Label           string `json:"label"`
		} `json:"tier"`
		Practice struct {
			Question *models.Question `json:"question"`
		} `json:"practice"`
	}
	s.decode(rec, &state)
	s.Equal(int64(3), state.Identity.UserID)
	s.Equal(50, state.Score)
	s.Equal(1, state.Tier.Stage)
	s.Equal(1, state.Tier.RemainingToNext)
	s.Equal("Stage 1 · Kitten", state.Tier.Label)
	s.Nil(state.Practice.Question)
}

func (s *APITestSuite) TestQuestionRejectsUnknownTopic() {
	s.login()
	rec := s.do(http.MethodPost, "/api/practice/question", map[string]string{"topic": "calculus", "difficulty_level": "basic"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(apperrors.ErrCodeValidation, s.errorCode(rec))
	s.gw.AssertNotCalled(s.T(), "GenerateQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *APITestSuite) TestEmptyAnswerIsPrecondition() {
	s.login()
	s.loadQuestion()

	rec := s.do(http.MethodPost, "/api/practice/answer", models.AnswerRequest{Answer: "   "})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apperrors.ErrCodePrecondition, s.errorCode(rec))
	s.gw.AssertNotCalled(s.T(), "CheckAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *APITestSuite) TestAnswerFlow() {
	s.login()
	q := s.loadQuestion()

	s.gw.On("CheckAnswer", mock.Anything, int64(3), models.AnswerSubmission{
		QuestionID: q.QuestionID, CanonicalText: q.CanonicalText, Topic: q.Topic,
		DifficultyLevel: q.DifficultyLevel, AnswerText: "3x",
	}).Return(&models.Verdict{IsCorrect: true, ScoreChange: 4, NewTotalScore: 54, AttemptCount: 1}, nil).Once()
	s.history.On("EnqueueHistory", mock.Anything).Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/practice/answer", models.AnswerRequest{Answer: "3x"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Result struct {
			State struct {
				Status       string `json:"status"`
				LastFeedback string `json:"last_feedback"`
			} `json:"state"`
			Stale bool `json:"stale"`
		} `json:"result"`
		Score int `json:"score"`
		View  struct {
			CanAdvance bool `json:"can_advance"`
		} `json:"view"`
	}
	s.decode(rec, &resp)
	s.Equal("correct", resp.Result.State.Status)
	s.Equal("Correct! +4 points", resp.Result.State.LastFeedback)
	s.False(resp.Result.Stale)
	s.Equal(54, resp.Score)
	s.True(resp.View.CanAdvance)
	s.Equal(54, s.learners.Identity().TotalScore)
}

func (s *APITestSuite) TestUpstreamMessageIsSurfaced() {
	s.login()
	s.gw.On("Purchase", mock.Anything, int64(3), "fish").
		Return(nil, apperrors.NewServiceError(400, "not enough points")).Once()

	rec := s.do(http.MethodPost, "/api/rewards/fish/purchase", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	var env errorEnvelope
	s.decode(rec, &env)
	s.Equal(apperrors.ErrCodeService, env.Error.Code)
	s.Equal("not enough points", env.Error.Message)
}

func (s *APITestSuite) TestPurchaseWithFailedRefreshWarns() {
	s.login()
	s.gw.On("Purchase", mock.Anything, int64(3), "fish").
		Return(&models.PurchaseResult{Success: true, NewTotalScore: 40, NewStage: 1}, nil).Once()
	s.gw.On("GetSummary", mock.Anything, int64(3)).
		Return(nil, apperrors.NewTransportError(errors.New("reset"))).Once()

	rec := s.do(http.MethodPost, "/api/rewards/fish/purchase", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Warning string `json:"warning"`
		Score   int    `json:"score"`
	}
	s.decode(rec, &resp)
	s.Equal("could not reach the server, please retry", resp.Warning)
	s.Equal(50, resp.Score)
}

func (s *APITestSuite) TestRewardsOverview() {
	s.login()
	s.gw.On("ListItems", mock.Anything).
		Return([]models.CatalogItem{{ItemID: "fish", Name: "Fish", Price: 5}}, nil).Once()
	s.gw.On("GetSummary", mock.Anything, int64(3)).
		Return(&models.Summary{UserID: 3, TotalScore: 60, RewardScore: 151, CurrentStage: 3}, nil).Once()

	rec := s.do(http.MethodGet, "/api/rewards", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Items []models.CatalogItem `json:"items"`
		Tier  struct {
			Stage           int `json:"stage"`
			RemainingToNext int `json:"remaining_to_next"`
		} `json:"tier"`
	}
	s.decode(rec, &resp)
	s.Len(resp.Items, 1)
	s.Equal(3, resp.Tier.Stage)
	s.Equal(150, resp.Tier.RemainingToNext)
}

func (s *APITestSuite) TestHistoryFilterParsing() {
	s.login()
	s.gw.On("ListHistory", mock.Anything, int64(3), mock.MatchedBy(func(f models.HistoryFilter) bool {
		return f.Limit == 5 && f.Offset == 10 && f.MinScore != nil && *f.MinScore == 2 &&
			f.DateFrom != nil && f.DateFrom.Format("2006-01-02") == "2024-03-01" && f.DateTo == nil
	})).Return([]models.HistoryRecord{{ID: 1}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/history?limit=5&offset=10&min_score=2&date_from=2024-03-01", nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.gw.AssertExpectations(s.T())

	rec = s.do(http.MethodGet, "/api/history?limit=abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestLogout() {
	s.login()

	rec := s.do(http.MethodPost, "/api/logout", nil)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Nil(s.learners.Identity())

	rec = s.do(http.MethodGet, "/api/me", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APITestSuite) TestQuestionBatch() {
	batch := []models.BatchQuestion{{
		Question: models.Question{QuestionID: "b1", Topic: "add_sub", DifficultyLevel: "advanced", CanonicalText: "3+4"},
		Solution: "7",
	}}
	s.gw.On("GenerateBatch", mock.Anything, 1, "advanced").Return(batch, nil).Once()

	rec := s.do(http.MethodPost, "/api/questions/batch", models.BatchRequest{Count: 1, DifficultyLevel: "advanced"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Questions []models.BatchQuestion `json:"questions"`
	}
	s.decode(rec, &resp)
	s.Equal(batch, resp.Questions)
}

func (s *APITestSuite) TestQuestionBatchRejectsBadCount() {
	for _, count := range []int{0, 21} {
		rec := s.do(http.MethodPost, "/api/questions/batch", map[string]any{"count": count})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(apperrors.ErrCodeValidation, s.errorCode(rec))
	}
	s.gw.AssertNotCalled(s.T(), "GenerateBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestTierEndpoint(t *testing.T) {
	srv := api.NewServer(nil, nil, nil, nil)
	tests := []struct {
		score     string
		stage     int
		remaining int
	}{
		{"50", 1, 1},
		{"51", 2, 100},
		{"150", 2, 1},
		{"151", 3, 150},
		{"300", 3, 1},
		{"301", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tier/"+tt.score, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Tier struct {
					Stage           int `json:"stage"`
					RemainingToNext int `json:"remaining_to_next"`
				} `json:"tier"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.stage, resp.Tier.Stage)
			assert.Equal(t, tt.remaining, resp.Tier.RemainingToNext)
		})
	}
}

func TestReadyReportsBackendFailure(t *testing.T) {
	srv := api.NewServer(nil, nil, nil, func(context.Context) error { return errors.New("redis down") })
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
