package logger

import "github.com/google/uuid"

// WithSession tags every record of l with a fresh session id and returns
// the id alongside the child logger
func WithSession(l Logger) (Logger, string) {
	id := uuid.New().String()
	return l.With("session", id), id
}
