package redaction_api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	internal_type "github.com/rapidaai/redaction/api/redaction-api/internal/type"
	"github.com/rapidaai/redaction/config"
	"github.com/rapidaai/redaction/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	seen     []internal_type.UploadRecord
	outcomes map[string]internal_type.Outcome
	ctxErrs  []error
}

func (f *fakeProcessor) Process(ctx context.Context, record internal_type.UploadRecord) internal_type.Outcome {
	f.seen = append(f.seen, record)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if outcome, ok := f.outcomes[record.Key]; ok {
		return outcome
	}
	return internal_type.Outcome{
		Result: internal_type.ResultSuccess,
		Step1:  internal_type.StepComplete,
		Step2:  internal_type.StepNotAttempted,
		Step3:  internal_type.StepNotAttempted,
		Note:   internal_type.NoteAlreadyProcessed,
		Key:    record.Key,
	}
}

func newTestHandler(t *testing.T, processor *fakeProcessor) *Handler {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("test-api"), commons.Level("error"))
	require.NoError(t, err)
	return NewHandler(logger, processor)
}

func s3Event(keys ...string) events.S3Event {
	event := events.S3Event{}
	for _, key := range keys {
		event.Records = append(event.Records, events.S3EventRecord{
			EventName: "ObjectCreated:Put",
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: "recordings"},
				Object: events.S3Object{Key: key},
			},
		})
	}
	return event
}

func failed(key string) internal_type.Outcome {
	return internal_type.Outcome{
		Result: internal_type.ResultFail,
		Step1:  internal_type.StepIncomplete,
		Step2:  internal_type.StepNotAttempted,
		Step3:  internal_type.StepNotAttempted,
		Note:   internal_type.NoteTagExtractionFailed,
		Key:    key,
	}
}

func TestHandle_SingleRecordPassesOutcomeNote(t *testing.T) {
	processor := &fakeProcessor{}
	report, err := newTestHandler(t, processor).Handle(context.Background(), s3Event("calls/abc_1.wav"))
	require.NoError(t, err)
	assert.Equal(t, internal_type.ResultSuccess, report.Result)
	assert.Equal(t, internal_type.NoteAlreadyProcessed, report.Note)
	require.Len(t, report.Records, 1)
	assert.Equal(t, []internal_type.UploadRecord{{Bucket: "recordings", Key: "calls/abc_1.wav", Encoded: true}}, processor.seen)
}

func TestHandle_ProcessesEveryRecord(t *testing.T) {
	processor := &fakeProcessor{outcomes: map[string]internal_type.Outcome{"b.wav": failed("b.wav")}}
	report, err := newTestHandler(t, processor).Handle(context.Background(), s3Event("a.wav", "b.wav", "c.wav"))
	require.NoError(t, err)
	assert.Len(t, processor.seen, 3)
	assert.Equal(t, internal_type.ResultFail, report.Result)
	assert.Equal(t, "1 of 3 records failed", report.Note)
	require.Len(t, report.Records, 3)
	assert.Equal(t, "a.wav", report.Records[0].Key)
	assert.Equal(t, "b.wav", report.Records[1].Key)
	assert.Equal(t, "c.wav", report.Records[2].Key)
}

func TestHandle_AllSucceeded(t *testing.T) {
	report, err := newTestHandler(t, &fakeProcessor{}).Handle(context.Background(), s3Event("a.wav", "b.wav"))
	require.NoError(t, err)
	assert.Equal(t, internal_type.ResultSuccess, report.Result)
	assert.Equal(t, NoteAllProcessed, report.Note)
}

func TestHandle_EmptyEvent(t *testing.T) {
	processor := &fakeProcessor{}
	report, err := newTestHandler(t, processor).Handle(context.Background(), events.S3Event{})
	require.NoError(t, err)
	assert.Equal(t, internal_type.ResultFail, report.Result)
	assert.Equal(t, NoteEmptyEvent, report.Note)
	assert.Empty(t, report.Records)
	assert.Empty(t, processor.seen)
}

func newTestEngine(t *testing.T, processor *fakeProcessor, checks map[string]ReadinessCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, err := commons.NewApplicationLogger(commons.Name("test-api"), commons.Level("error"))
	require.NoError(t, err)
	cfg := &config.AppConfig{Name: "recording-redaction", Version: "0.0.1"}
	api := NewWebhookApi(cfg, logger, newTestHandler(t, processor), checks)

	engine := gin.New()
	engine.POST("/v1/redaction/events", api.Events)
	engine.GET("/healthz/", api.Healthz)
	engine.GET("/readiness/", api.Readiness)
	return engine
}

func postEvent(t *testing.T, engine *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/redaction/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestEvents_Success(t *testing.T) {
	body, err := json.Marshal(s3Event("calls/abc_1.wav"))
	require.NoError(t, err)

	w := postEvent(t, newTestEngine(t, &fakeProcessor{}, nil), body)
	assert.Equal(t, http.StatusOK, w.Code)

	var report Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, internal_type.ResultSuccess, report.Result)
	require.Len(t, report.Records, 1)
	assert.Equal(t, internal_type.StepComplete, report.Records[0].Step1)
}

func TestEvents_FailedReport(t *testing.T) {
	body, err := json.Marshal(s3Event("a.wav"))
	require.NoError(t, err)
	processor := &fakeProcessor{outcomes: map[string]internal_type.Outcome{"a.wav": failed("a.wav")}}

	w := postEvent(t, newTestEngine(t, processor, nil), body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"step_1_result":"incomplete"`)
}

func TestEvents_BadJSON(t *testing.T) {
	processor := &fakeProcessor{}
	w := postEvent(t, newTestEngine(t, processor, nil), []byte(`{"Records": [`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, processor.seen)
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t, &fakeProcessor{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"recording-redaction"`)
}

func TestReadiness(t *testing.T) {
	up := func(context.Context) bool { return true }
	down := func(context.Context) bool { return false }

	w := httptest.NewRecorder()
	newTestEngine(t, &fakeProcessor{}, map[string]ReadinessCheck{"redis": up}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newTestEngine(t, &fakeProcessor{}, map[string]ReadinessCheck{"redis": up, "postgres": down}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":false`)
}

func TestEvents_ClientDisconnectDoesNotCancelPipeline(t *testing.T) {
	body, err := json.Marshal(s3Event("calls/abc_1.wav"))
	require.NoError(t, err)
	processor := &fakeProcessor{}
	engine := newTestEngine(t, processor, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/redaction/events", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Len(t, processor.ctxErrs, 1)
	assert.NoError(t, processor.ctxErrs[0])
	assert.Equal(t, http.StatusOK, w.Code)
}
