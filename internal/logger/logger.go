// Package logger configures the global zerolog logger: a console writer on
// stderr and, optionally, a size-rotated file through lumberjack.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/robert-butts/quadtree/internal/config"
)

const timeFormat = "2006-01-02 15:04:05.000"

var mu sync.Mutex

// consoleWriter adapts zerolog.ConsoleWriter to zerolog.LevelWriter.
type consoleWriter struct {
	zerolog.ConsoleWriter
}

// WriteLevel reports len(p) written; the console output has a different
// length than the JSON zerolog hands in, and a mismatch is a short write.
func (c consoleWriter) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	_, err := c.ConsoleWriter.Write(p)
	return len(p), err
}

// fileWriter writes JSON entries, or single formatted lines when formatted
// is set, to a rotating file.
type fileWriter struct {
	*lumberjack.Logger
	formatted bool
}

func (f fileWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if !f.formatted {
		return f.Logger.Write(p)
	}
	line, err := formatLine(level, p)
	if err != nil {
		return f.Logger.Write(p)
	}
	_, err = f.Logger.Write([]byte(line))
	return len(p), err
}

// formatLine renders one zerolog JSON entry as
// "time | level | caller | message | k=v ...".
func formatLine(level zerolog.Level, p []byte) (string, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return "", err
	}
	ts, _ := entry[zerolog.TimestampFieldName].(string)
	msg, _ := entry[zerolog.MessageFieldName].(string)
	caller, _ := entry[zerolog.CallerFieldName].(string)

	var extras []string
	for k, v := range entry {
		switch k {
		case zerolog.TimestampFieldName, zerolog.MessageFieldName, zerolog.LevelFieldName, zerolog.CallerFieldName:
			continue
		}
		extras = append(extras, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(extras)
	return fmt.Sprintf("%s | %-5s | %-20s | %s | %s\n", ts, level.String(), caller, msg, strings.Join(extras, " ")), nil
}

// shortCaller trims "path/to/file.go" to "file".
func shortCaller(_ uintptr, file string, line int) string {
	file = filepath.Base(file)
	return fmt.Sprintf("%s:%d", strings.TrimSuffix(file, ".go"), line)
}

// pruneLogs removes the oldest *.log files in dir beyond keep.
func pruneLogs(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type logFile struct {
		name string
		mod  time.Time
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{e.Name(), info.ModTime()})
	}
	if len(files) <= keep {
		return nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })
	for _, f := range files[:len(files)-keep] {
		if err := os.Remove(filepath.Join(dir, f.name)); err != nil {
			log.Warn().Err(err).Str("file", f.name).Msg("remove old log file")
		}
	}
	return nil
}

func newFileWriter(cfg config.Log) (*fileWriter, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	if err := pruneLogs(cfg.Dir, cfg.MaxLogFiles); err != nil {
		log.Warn().Err(err).Msg("prune log directory")
	}
	suffix := "_json"
	if cfg.Formatted {
		suffix = ""
	}
	// one file per day; runs on the same day append
	name := fmt.Sprintf("%s_%s%s.log", cfg.FileName, time.Now().Format("2006-01-02"), suffix)
	return &fileWriter{
		Logger: &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, name),
			MaxSize:    cfg.MaxFileSize,
			MaxBackups: 3,
			MaxAge:     30,
		},
		formatted: cfg.Formatted,
	}, nil
}

// Init installs the global logger described by cfg and returns a closer for
// the log file, if any. A file that cannot be set up is reported on the
// console and skipped.
func Init(cfg config.Log) io.Closer {
	return initTo(cfg, os.Stderr)
}

func initTo(cfg config.Log, console io.Writer) io.Closer {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.CallerMarshalFunc = shortCaller

	writers := []io.Writer{consoleWriter{zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}}}
	var closer io.Closer = nopCloser{}
	var fileErr error
	if cfg.ToFile {
		fw, err := newFileWriter(cfg)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, fw)
			closer = fw.Logger
		}
	}

	mu.Lock()
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Caller().Logger()
	mu.Unlock()
	SetLevel(cfg.Level)

	if fileErr != nil {
		log.Error().Err(fileErr).Str("dir", cfg.Dir).Msg("log file disabled")
	}
	return closer
}

// Get returns the current global logger.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log.Logger
}

// SetLevel sets the global level by name, falling back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
