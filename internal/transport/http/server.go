package http

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/hashicorp/go-hclog"
)

// recoveryLogger sends recovered panics to hclog.
type recoveryLogger struct {
	logger hclog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("Recovered from panic", "panic", v)
}

// NewHandler wraps the router with panic recovery, an access log and
// response compression.
func NewHandler(router http.Handler, logger hclog.Logger) http.Handler {
	var h http.Handler = router
	h = handlers.CompressHandler(h)
	h = handlers.CombinedLoggingHandler(
		logger.Named("access").StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Debug}),
		h,
	)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return h
}
