package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vytor/mathcat/internal/errors"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
)

var validate = validator.New()

// RequestIDHeader carries the correlation id on every outbound call.
const RequestIDHeader = "X-Request-ID"

// Client talks JSON to the practice backend. It sets no timeout and never
// retries: a failed call ends the operation and the learner retries by hand.
// Callers bound calls through their context if they need to.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logger.Default().WithPrefix("gateway"),
	}
}

func (c *Client) Login(ctx context.Context, name, altName, classLabel string) (*models.Identity, error) {
	var out loginResp
	err := c.do(ctx, http.MethodPost, "/api/login", nil, loginReq{
		ChineseName: name,
		EnglishName: altName,
		ClassName:   classLabel,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.model(), nil
}

func (c *Client) GenerateQuestion(ctx context.Context, userID int64, topic, difficultyLevel string) (*models.Question, error) {
	var out questionResp
	err := c.do(ctx, http.MethodPost, "/api/generate_question", nil, generateReq{
		UserID:          userID,
		Topic:           topic,
		DifficultyLevel: difficultyLevel,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.model(), nil
}

// GenerateBatch fetches count questions with random topics. An empty
// difficultyLevel leaves the choice to the backend.
func (c *Client) GenerateBatch(ctx context.Context, count int, difficultyLevel string) ([]models.BatchQuestion, error) {
	var out batchResp
	err := c.do(ctx, http.MethodPost, "/api/questions/batch", nil, batchReq{
		Count:      count,
		Difficulty: difficultyLevel,
	}, &out)
	if err != nil {
		return nil, err
	}
	batch := make([]models.BatchQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		batch = append(batch, models.BatchQuestion{
			Question: *q.model(),
			Solution: q.SolutionExpression,
		})
	}
	return batch, nil
}

func (c *Client) CheckAnswer(ctx context.Context, userID int64, sub models.AnswerSubmission) (*models.Verdict, error) {
	var out checkResp
	err := c.do(ctx, http.MethodPost, "/api/check_answer", nil, checkReq{
		UserID:          userID,
		QuestionID:      sub.QuestionID,
		ExpressionText:  sub.CanonicalText,
		Topic:           sub.Topic,
		DifficultyLevel: sub.DifficultyLevel,
		UserAnswer:      sub.AnswerText,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.model(), nil
}

func (c *Client) AppendHistory(ctx context.Context, entry models.HistoryEntry) error {
	return c.do(ctx, http.MethodPost, "/api/history", nil, historyReq{
		UserID:        entry.UserID,
		QuestionText:  entry.QuestionText,
		UserAnswer:    entry.AnswerText,
		Score:         entry.ScoreDelta,
		CorrectAnswer: entry.CorrectAnswer,
	}, nil)
}

func (c *Client) ListHistory(ctx context.Context, userID int64, filter models.HistoryFilter) ([]models.HistoryRecord, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = models.DefaultHistoryLimit
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(filter.Offset))
	if filter.MinScore != nil {
		q.Set("min_score", strconv.Itoa(*filter.MinScore))
	}
	if filter.DateFrom != nil {
		q.Set("date_from", filter.DateFrom.Format(time.RFC3339))
	}
	if filter.DateTo != nil {
		q.Set("date_to", filter.DateTo.Format(time.RFC3339))
	}

	var out []historyResp
	if err := c.do(ctx, http.MethodGet, "/api/history", q, nil, &out); err != nil {
		return nil, err
	}
	records := make([]models.HistoryRecord, 0, len(out))
	for _, r := range out {
		records = append(records, r.model())
	}
	return records, nil
}

func (c *Client) RecentQuestions(ctx context.Context, userID int64) ([]models.RecentQuestion, error) {
	var out recentResp
	path := fmt.Sprintf("/api/users/%d/recent_questions", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	recent := make([]models.RecentQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		recent = append(recent, models.RecentQuestion{
			QuestionID:     q.QuestionID,
			ExpressionText: q.ExpressionText,
			CreatedAt:      q.CreatedAt,
		})
	}
	return recent, nil
}

func (c *Client) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	var out foodListResp
	if err := c.do(ctx, http.MethodGet, "/api/foods", nil, nil, &out); err != nil {
		return nil, err
	}
	items := make([]models.CatalogItem, 0, len(out.Foods))
	for _, f := range out.Foods {
		items = append(items, models.CatalogItem{
			ItemID:      f.FoodID,
			Name:        f.Name,
			Description: f.Description,
			Price:       f.Price,
			ImageRef:    f.Image,
		})
	}
	return items, nil
}

func (c *Client) Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error) {
	var out buyResp
	if err := c.do(ctx, http.MethodPost, "/api/buy_food", nil, buyReq{UserID: userID, FoodID: itemID}, &out); err != nil {
		return nil, err
	}
	return &models.PurchaseResult{
		Success:       out.Success,
		NewTotalScore: out.NewTotalScore,
		NewStage:      out.CurrentCatStage,
	}, nil
}

func (c *Client) GetSummary(ctx context.Context, userID int64) (*models.Summary, error) {
	var out summaryResp
	path := fmt.Sprintf("/api/users/%d/summary", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.model(), nil
}

// do sends one request. Network failures become TRANSPORT_ERROR, non-2xx
// responses become SERVICE_ERROR carrying the backend's message, and bodies
// that decode but fail validation become SERVICE_ERROR too.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	requestID := uuid.NewString()
	log := logger.FromContext(ctx).WithPrefix("gateway").WithFields(map[string]any{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError(err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return errors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return errors.NewTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := errorMessage(resp.StatusCode, raw)
		log.Warn("backend rejected request: status=%d, message=%s", resp.StatusCode, msg)
		return errors.NewServiceError(resp.StatusCode, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return errors.NewServiceError(http.StatusBadGateway, "the server sent an unreadable response")
	}
	if err := validate.Struct(out); err != nil {
		if _, isInvalid := err.(*validator.InvalidValidationError); !isInvalid {
			log.Error("response failed validation: %v", err)
			return errors.NewServiceError(http.StatusBadGateway, "the server sent an incomplete response")
		}
	}
	return nil
}

// errorMessage extracts the human-readable text from a failed response: the
// "detail" string when present, otherwise the raw body, otherwise the status.
func errorMessage(status int, raw []byte) string {
	var payload errorResp
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
