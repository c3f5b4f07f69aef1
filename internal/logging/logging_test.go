package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := SetupLogging("debug")
	logger.Out = buf
	return logger, buf
}

func decodeLastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, SetupLogging("warn").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("nonsense").Level)
}

func TestLogData_FieldsAndTimings(t *testing.T) {
	logger, buf := newBufferedLogger()
	logData := NewLogData(logger)

	logData.AddData("accountID", "abc")
	stop := logData.AddTiming("transferMs")
	stop()
	logData.Log().Info("done")

	entry := decodeLastLine(t, buf)
	assert.Equal(t, "abc", entry["accountID"])
	assert.Contains(t, entry, "transferMs")
	assert.Equal(t, "info", entry["loglevel"])
}

func TestLogData_Context(t *testing.T) {
	logger, _ := newBufferedLogger()
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(logger)
	ctx := WithLogData(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
}

func TestTimed_RecordsWhenLogDataPresent(t *testing.T) {
	logger, buf := newBufferedLogger()
	logData := NewLogData(logger)
	ctx := WithLogData(context.Background(), logData)

	err := Timed(ctx, "lookupMs", func() error { return nil })
	require.NoError(t, err)
	logData.Log().Info("x")

	assert.Contains(t, decodeLastLine(t, buf), "lookupMs")
}

func TestTimed_WithoutLogData(t *testing.T) {
	want := errors.New("boom")
	assert.Equal(t, want, Timed(context.Background(), "x", func() error { return want }))
}

func TestLoggingWrapper_LogsErrorAndComplete(t *testing.T) {
	logger, buf := newBufferedLogger()

	failing := LoggingWrapper("Fail", logger, func(w http.ResponseWriter, _ *http.Request, _ *LogData) error {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("bad")
	})
	failing(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Handler.Fail.Error", decodeLastLine(t, buf)["msg"])

	ok := LoggingWrapper("Ok", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(req.Context()))
		w.WriteHeader(http.StatusOK)
		return nil
	})
	ok(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Handler.Ok.Complete", decodeLastLine(t, buf)["msg"])
}
