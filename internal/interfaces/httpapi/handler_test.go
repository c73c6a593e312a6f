package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/infrastructure/line"
	chatmock "github.com/riskibarqy/matchday-bot/internal/mocks/domain/chat"
	matchmock "github.com/riskibarqy/matchday-bot/internal/mocks/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret       = "testsecret"
	todayCommand     = "ตารางบอล"
	yesterdayCommand = "ผลบอลเมื่อวาน"
)

func textPayload(text string) string {
	return `{"destination":"U0000000000000000000000000000000a","events":[{"type":"message",` +
		`"message":{"type":"text","id":"14353798921116","text":"` + text + `"},` +
		`"timestamp":1625665242211,"source":{"type":"user","userId":"U80696558e1aa831b1b0b8d1e12a8a6c5"},` +
		`"replyToken":"757913772c4646b784d4b7ce46d12671","mode":"active",` +
		`"webhookEventId":"01FZ74A0TDDPYRVKNK77XKC3ZR","deliveryContext":{"isRedelivery":false}}]}`
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	_, _ = mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestRouter(t *testing.T) (http.Handler, *matchmock.Source, *chatmock.Messenger) {
	t.Helper()
	source := matchmock.NewSource(t)
	messenger := chatmock.NewMessenger(t)

	commands := usecase.NewCommandService(usecase.CommandServiceConfig{
		TodayCommand:     todayCommand,
		YesterdayCommand: yesterdayCommand,
		MaxConcurrency:   2,
	}, usecase.NewReportService(source), messenger, logging.NewNop(), nil)

	handler := NewHandler(line.NewWebhookParser(testSecret), commands, time.Second, logging.NewNop())
	return NewRouter(handler, logging.NewNop()), source, messenger
}

func postCallback(router http.Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, CallbackPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCallback_InvalidSignatureIsRejected(t *testing.T) {
	t.Parallel()

	router, source, messenger := newTestRouter(t)
	body := textPayload(todayCommand)

	rec := postCallback(router, body, base64.StdEncoding.EncodeToString([]byte("forged")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	source.AssertNotCalled(t, "FetchMatches", mock.Anything, mock.Anything)
	messenger.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallback_MissingSignatureIsRejected(t *testing.T) {
	t.Parallel()

	router, source, _ := newTestRouter(t)
	rec := postCallback(router, textPayload(todayCommand), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	source.AssertNotCalled(t, "FetchMatches", mock.Anything, mock.Anything)
}

func TestCallback_MalformedBodyIsRejected(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)
	body := `{"events":[`
	rec := postCallback(router, body, sign(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallback_TodayCommandReplies(t *testing.T) {
	t.Parallel()

	router, source, messenger := newTestRouter(t)
	fixtures := match.GroupByCompetition([]match.Match{{
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		Competition: "Premier League",
		KickoffUTC:  time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
	}})
	source.On("FetchMatches", mock.Anything, mock.Anything).Return(fixtures, nil).Once()
	messenger.On("Reply", mock.Anything, "757913772c4646b784d4b7ce46d12671",
		"Today's Football Matches:\n\nPremier League\nArsenal vs Chelsea at 2024-03-10 22:00:00").
		Return(nil).Once()

	body := textPayload(todayCommand)
	rec := postCallback(router, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCallback_OtherTextIsAcknowledgedWithoutReply(t *testing.T) {
	t.Parallel()

	router, source, messenger := newTestRouter(t)
	body := textPayload("hello")

	rec := postCallback(router, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	source.AssertNotCalled(t, "FetchMatches", mock.Anything, mock.Anything)
	messenger.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallback_UpstreamFailureStillAcknowledges(t *testing.T) {
	t.Parallel()

	router, source, messenger := newTestRouter(t)
	source.On("FetchMatches", mock.Anything, mock.Anything).Return(nil, usecase.ErrNetwork).Once()

	body := textPayload(yesterdayCommand)
	rec := postCallback(router, body, sign(body))

	require.Equal(t, http.StatusOK, rec.Code)
	messenger.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
}

func TestCallback_OnlyPostIsRouted(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CallbackPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
