package notify

import (
	"sync"

	"storefront/internal/logger"
)

// Sink receives user-facing messages. Calls are fire-and-forget and are
// never consulted for control flow.
type Sink interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is the JSON shape returned to the browser.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recorder collects notifications for one request.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: msg})
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }

// Notifications returns a copy of everything recorded so far. It is never nil.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification{}, r.items...)
}

// LogSink writes notifications to the service log.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Success(msg string) { s.log.Info("notify success: %s", msg) }
func (s *LogSink) Error(msg string)   { s.log.Warn("notify error: %s", msg) }
func (s *LogSink) Info(msg string)    { s.log.Debug("notify info: %s", msg) }

// Multi fans out to every sink in order.
type Multi []Sink

func (m Multi) Success(msg string) {
	for _, s := range m {
		s.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}

func (m Multi) Info(msg string) {
	for _, s := range m {
		s.Info(msg)
	}
}

// Discard drops everything.
var Discard Sink = Multi(nil)
