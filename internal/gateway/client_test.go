package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/gateway"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/testutil"
)

func newServer(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.New(srv.URL + "/")
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestLogin(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(gateway.RequestIDHeader))
		body := decodeBody(t, r)
		assert.Equal(t, "Li Lei", body["chinese_name"])
		assert.Equal(t, "Leo", body["english_name"])
		assert.Equal(t, "7A", body["class_name"])
		_, _ = w.Write([]byte(`{"userId":4,"chinese_name":"Li Lei","english_name":"Leo","class_name":"7A","total_score":17}`))
	})

	id, err := client.Login(context.Background(), "Li Lei", "Leo", "7A")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{UserID: 4, Name: "Li Lei", AltName: "Leo", ClassLabel: "7A", TotalScore: 17}, *id)
}

func TestGenerateQuestion(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.EqualValues(t, 4, body["userId"])
		assert.Equal(t, "factorization", body["topic"])
		assert.Equal(t, "basic", body["difficultyLevel"])
		_, _ = w.Write([]byte(`{"questionId":"q-1","topic":"factorization","difficultyLevel":"basic","expressionText":"x^2-1","expressionLatex":"x^{2}-1","difficultyScore":20}`))
	})

	q, err := client.GenerateQuestion(context.Background(), 4, "factorization", "basic")
	require.NoError(t, err)
	assert.Equal(t, "q-1", q.QuestionID)
	assert.Equal(t, "x^2-1", q.CanonicalText)
	assert.Equal(t, "x^{2}-1", q.DisplayForm)
	assert.Equal(t, 20, q.DifficultyScore)
}

func TestGenerateBatch(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/questions/batch", r.URL.Path)
		body := decodeBody(t, r)
		assert.EqualValues(t, 2, body["count"])
		assert.Equal(t, "advanced", body["difficulty"])
		_, _ = w.Write([]byte(`{"questions":[` +
			`{"questionId":"b-1","topic":"mul_div","difficultyLevel":"advanced","expressionText":"6/3","expressionLatex":"6 \\div 3","difficultyScore":30,"solutionExpression":"2"},` +
			`{"questionId":"b-2","topic":"add_sub","difficultyLevel":"advanced","expressionText":"1+1","expressionLatex":"","difficultyScore":30,"solutionExpression":"2"}]}`))
	})

	batch, err := client.GenerateBatch(context.Background(), 2, "advanced")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "b-1", batch[0].QuestionID)
	assert.Equal(t, "6/3", batch[0].CanonicalText)
	assert.Equal(t, `6 \div 3`, batch[0].DisplayForm)
	assert.Equal(t, "2", batch[0].Solution)
	assert.Equal(t, "1+1", batch[1].DisplayForm)
}

func TestGenerateBatch_OmitsEmptyDifficulty(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.NotContains(t, body, "difficulty")
		_, _ = w.Write([]byte(`{"questions":[]}`))
	})

	batch, err := client.GenerateBatch(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestCheckAnswer_WithSolution(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "q-1", body["questionId"])
		assert.Equal(t, "x^2-1", body["expressionText"])
		assert.Equal(t, "(x+1)(x-1)", body["userAnswer"])
		_, _ = w.Write([]byte(`{"isCorrect":false,"difficultyScore":20,"scoreChange":-1,"newTotalScore":16,"attemptCount":3,"solutionExpression":"(x-1)*(x+1)"}`))
	})

	v, err := client.CheckAnswer(context.Background(), 4, models.AnswerSubmission{
		QuestionID:    "q-1",
		CanonicalText: "x^2-1",
		AnswerText:    "(x+1)(x-1)",
	})
	require.NoError(t, err)
	assert.False(t, v.IsCorrect)
	assert.Equal(t, 3, v.AttemptCount)
	assert.Equal(t, "(x-1)*(x+1)", v.Solution)
}

func TestServiceErrorCarriesDetail(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"insufficient points"}`))
	})

	_, err := client.Purchase(context.Background(), 4, "feast")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeService))
	assert.Equal(t, "insufficient points", errors.Message(err))
}

func TestServiceErrorFallsBackToStatusText(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetSummary(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, "Internal Server Error", errors.Message(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := gateway.New(srv.URL)

	_, err := client.ListItems(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTransport))
}

func TestIncompleteResponseIsRejected(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"topic":"add_sub"}`))
	})

	_, err := client.GenerateQuestion(context.Background(), 4, "add_sub", "basic")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeService))
}

func TestListItemsAndPurchase(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/foods":
			_, _ = w.Write([]byte(`{"foods":[{"foodId":"milk","name":"Milk","description":"warm","price":8,"image":"/images/food-milk.png"}]}`))
		case "/api/buy_food":
			body := decodeBody(t, r)
			assert.Equal(t, "milk", body["foodId"])
			_, _ = w.Write([]byte(`{"success":true,"newTotalScore":12,"currentCatStage":1}`))
		default:
			http.NotFound(w, r)
		}
	})

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.CatalogItem{ItemID: "milk", Name: "Milk", Description: "warm", Price: 8, ImageRef: "/images/food-milk.png"}, items[0])

	res, err := client.Purchase(context.Background(), 4, "milk")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseResult{Success: true, NewTotalScore: 12, NewStage: 1}, *res)
}

func TestGetSummary(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/4/summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"userId":4,"totalScore":20,"catScore":51,"currentCatStage":2,"nextStageScore":151}`))
	})

	s, err := client.GetSummary(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.Summary{UserID: 4, TotalScore: 20, RewardScore: 51, CurrentStage: 2, NextStageThreshold: 151}, *s)
}

func TestListHistoryQuery(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "4", q.Get("user_id"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "5", q.Get("offset"))
		assert.Equal(t, "1", q.Get("min_score"))
		_, _ = w.Write([]byte(`[{"id":1,"user_id":4,"question_text":"2x+3x","user_answer":"5x","score":1,"correct_answer":null,"created_at":"2026-01-02T03:04:05Z"}]`))
	})

	records, err := client.ListHistory(context.Background(), 4, models.HistoryFilter{Offset: 5, MinScore: testutil.IntPtr(1)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5x", records[0].AnswerText)
	assert.Nil(t, records[0].CorrectAnswer)
}

func TestAppendHistory(t *testing.T) {
	called := false
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		body := decodeBody(t, r)
		assert.Equal(t, "2x+3x", body["question_text"])
		assert.EqualValues(t, -1, body["score"])
		assert.Nil(t, body["correct_answer"])
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	err := client.AppendHistory(context.Background(), models.HistoryEntry{UserID: 4, QuestionText: "2x+3x", AnswerText: "6x", ScoreDelta: -1})
	require.NoError(t, err)
	assert.True(t, called)
}
