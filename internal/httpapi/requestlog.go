package httpapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GabrielNunesIT/cachecore/internal/logging"
)

type requestLogConfig struct {
	levelToUse         logging.Level
	logRequestID       bool
	logRequestIDHeader string
	logProtocol        bool
	logMethod          bool
	logURI             bool
	logStatus          bool
	logLatency         bool
}

// RequestLogger is an Echo middleware that logs one line per request and
// attaches the logger to the request's context so downstream handlers can
// pull it back out via logging.FromCtx.
type RequestLogger struct {
	*Logger
	config requestLogConfig
}

// RequestLogOption configures a RequestLogger.
type RequestLogOption func(*RequestLogger)

// NewRequestLogger builds a RequestLogger writing to stdout in console
// format by default.
func NewRequestLogger(opts ...RequestLogOption) *RequestLogger {
	rl := &RequestLogger{
		Logger: &Logger{ILogger: logging.NewConsoleLogger(os.Stdout)},
		config: requestLogConfig{levelToUse: logging.LevelInfo},
	}
	rl.SetPrefix("[http]")

	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// WithJSONRequestLog switches the middleware to structured JSON output.
func WithJSONRequestLog() RequestLogOption {
	return func(rl *RequestLogger) {
		prefix := rl.Prefix()
		rl.Logger = &Logger{ILogger: logging.NewJSONLogger(os.Stdout)}
		rl.SetPrefix(prefix)
	}
}

// WithRequestLogLevel sets the level every request line is logged at.
func WithRequestLogLevel(level logging.Level) RequestLogOption {
	return func(rl *RequestLogger) { rl.config.levelToUse = level }
}

// WithRequestIDHeader enables request-ID propagation using header, generating
// one when the client didn't send it.
func WithRequestIDHeader(header string) RequestLogOption {
	return func(rl *RequestLogger) {
		rl.config.logRequestID = true
		rl.config.logRequestIDHeader = header
	}
}

// WithFullRequestLine enables protocol, method, URI, status and latency in
// the logged line.
func WithFullRequestLine() RequestLogOption {
	return func(rl *RequestLogger) {
		rl.config.logProtocol = true
		rl.config.logMethod = true
		rl.config.logURI = true
		rl.config.logStatus = true
		rl.config.logLatency = true
	}
}

// ToMiddleware returns an httpapi MiddlewareFunc implementing the configured
// logging behavior.
func (rl *RequestLogger) ToMiddleware() MiddlewareFunc {
	if rl.config.logRequestIDHeader == "" {
		rl.config.logRequestIDHeader = "X-Request-ID"
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			if rl.config.logRequestID {
				setRequestID(req, res, rl.config.logRequestIDHeader)
				id := req.Header.Get(rl.config.logRequestIDHeader)
				if id == "" {
					id = res.Header().Get(rl.config.logRequestIDHeader)
				}
				rl.SetLogID(id)
			}

			c.SetRequest(req.WithContext(logging.NewContextWithLogger(req.Context(), rl.ILogger)))

			err := next(c)

			msg := "request"
			if rl.config.logProtocol {
				msg += " proto=" + req.Proto
			}
			if rl.config.logMethod {
				msg += " method=" + req.Method
			}
			if rl.config.logURI {
				msg += " uri=" + req.RequestURI
			}
			if rl.config.logStatus {
				msg += fmt.Sprintf(" status=%d", res.Status)
			}
			if rl.config.logLatency {
				msg += fmt.Sprintf(" latency_ms=%d", time.Since(start).Milliseconds())
			}

			switch rl.config.levelToUse {
			case logging.LevelTrace:
				rl.Trace(msg)
			case logging.LevelDebug:
				rl.Debug(msg)
			case logging.LevelInfo:
				rl.Info(msg)
			default:
				// warning/error/panic levels are not used for routine
				// request lines.
			}

			return err
		}
	}
}

func setRequestID(req *http.Request, res *echo.Response, header string) {
	rid := req.Header.Get(header)
	if rid == "" {
		rid = generateRandomRequestID(12)
	}
	res.Header().Set(header, rid)
}

func generateRandomRequestID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, length)
	for i := range buf {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		buf[i] = charset[num.Int64()]
	}
	return string(buf)
}
