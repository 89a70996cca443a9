package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

func LogPhase(phase string, devices int, notes string) {
	log.Println(buildPhaseMessage(phase, devices, notes))
}

func buildPhaseMessage(phase string, devices int, notes string) string {
	p := strings.TrimSpace(phase)
	if p == "" {
		p = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", strings.ToUpper(p))}
	parts = append(parts, fmt.Sprintf("devices=%d", devices))
	if notes = strings.TrimSpace(notes); notes != "" {
		parts = append(parts, fmt.Sprintf("notes=%q", notes))
	}
	return strings.Join(parts, " ")
}
