package backend

import "go.uber.org/zap"

// CallEvent records metadata about a single request to the remote service.
type CallEvent struct {
	Path      string
	Method    string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver writes backend call events to a structured logger.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates an Observer that logs events through log.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapObserver{log: log}
}

func (o *ZapObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("method", event.Method),
		zap.String("path", event.Path),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Int("attempts", event.Attempts),
	}
	if event.Success {
		o.log.Debug("backend call", fields...)
		return
	}
	o.log.Warn("backend call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
