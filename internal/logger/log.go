package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sizeLimit = 240 * 1024 // CloudWatch log size limit
	// request log type
	requestType = "request"
	truncated   = "TRUNCATED..."
)

// form fields that must never reach the log
var redactedFields = []string{"token", "payload"}

// logRecord for Request Log
type logRecord struct {
	RequestID       string
	Timestamp       int64
	Duration        int64
	HTTPStatusCode  int
	ErrorStackTrace string
	HTTPMethod      string
	RequestPath     string
	RequestQuery    string
	RequestBody     string
	ResponseBody    string
}

func (r *logRecord) fields() []zap.Field {
	return []zap.Field{
		zap.String("type", requestType),
		zap.String("request_id", r.RequestID),
		zap.Int64("timestamp", r.Timestamp),
		zap.Int64("duration_ms", r.Duration),
		zap.Int("status", r.HTTPStatusCode),
		zap.String("method", r.HTTPMethod),
		zap.String("path", r.RequestPath),
		zap.String("query", r.RequestQuery),
		zap.String("request_body", r.RequestBody),
		zap.String("response_body", r.ResponseBody),
		zap.String("stack", r.ErrorStackTrace),
	}
}

// GinLogMiddleware writes one request record per request, even when a handler panics
func GinLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		respLogWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respLogWriter

		record := initLogRecord(c)
		if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
			record.RequestID = lc.AwsRequestID
		} else {
			record.RequestID = uuid.NewString()
		}

		defer func() {
			truncate(record)
			GetLogger().Info("http request", record.fields()...)
		}()

		defer func() {
			if r := recover(); r != nil {
				record.HTTPStatusCode = http.StatusInternalServerError
				record.ErrorStackTrace = string(debug.Stack())
				// throw the panic to the later middlewares
				panic(r)
			}
		}()

		c.Next()

		record.HTTPStatusCode = c.Writer.Status()
		record.Duration = time.Now().UnixMilli() - record.Timestamp
		record.ResponseBody = respLogWriter.body.String()
	}
}

// truncate drops the largest parts of the record until it fits the log size limit
func truncate(record *logRecord) {
	size := func() int {
		return len(record.RequestBody) + len(record.ResponseBody) + len(record.ErrorStackTrace)
	}
	if size() < sizeLimit {
		return
	}
	record.ResponseBody = truncated
	if size() < sizeLimit {
		return
	}
	record.RequestBody = truncated
	if size() < sizeLimit {
		return
	}
	record.ErrorStackTrace = truncated
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(c *gin.Context) *logRecord {
	var requestBody []byte
	if c.Request.Body != nil {
		var err error
		requestBody, err = io.ReadAll(c.Request.Body)
		if err != nil {
			GetLogger().Warn("failed to read request body for logging", zap.Error(err))
		}
		// reattach request body for later use
		c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
	}

	return &logRecord{
		Timestamp:    time.Now().UnixMilli(),
		HTTPMethod:   c.Request.Method,
		RequestPath:  c.Request.URL.Path,
		RequestQuery: c.Request.URL.Query().Encode(),
		RequestBody:  redactBody(c.ContentType(), requestBody),
	}
}

// redactBody hides secrets in form encoded bodies. Interaction payloads are replaced wholesale
// since they embed the verification token.
func redactBody(contentType string, body []byte) string {
	if contentType != gin.MIMEPOSTForm {
		return string(body)
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return string(body)
	}
	for _, field := range redactedFields {
		if values.Has(field) {
			values.Set(field, "REDACTED")
		}
	}
	return values.Encode()
}
