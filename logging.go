package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// Logger is the logging surface used by the commands.
type Logger interface {
	Log(format string, args ...any)
}

type stdLogger struct {
	logger *log.Logger
}

func (s *stdLogger) Log(format string, args ...any) {
	s.logger.Printf(format, args...)
}

// runLogger prefixes every line with the run ID.
type runLogger struct {
	id   string
	base Logger
}

func (r *runLogger) Log(format string, args ...any) {
	r.base.Log("[%s] "+format, append([]any{r.id}, args...)...)
}

func generateRunID() string {
	return uuid.New().String()[:8]
}

// setupLogging opens logFile for appending and returns a logger writing to
// both it and out. The caller closes the returned file.
func setupLogging(logFile string, out io.Writer) (Logger, *os.File, error) {
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	base := &stdLogger{logger: log.New(io.MultiWriter(out, f), "", log.LstdFlags)}
	return &runLogger{id: generateRunID(), base: base}, f, nil
}
