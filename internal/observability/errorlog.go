package observability

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/chuckie/llmc/internal/security"
)

var (
	mu       sync.Mutex
	logFile  *os.File
	logPath  string
	logger   *log.Logger
	redactor = security.NewRedactor()
)

// DefaultLogPath is <user cache dir>/llmc/error.log, overridable with LLMC_LOG_PATH.
func DefaultLogPath() string {
	if p := os.Getenv("LLMC_LOG_PATH"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "llmc-error.log"
	}
	return filepath.Join(dir, "llmc", "error.log")
}

// Init opens the redacted error log. When mirror is non-nil every line is
// also written there (used by --verbose).
func Init(path string, mirror io.Writer) (cleanup func(), err error) {
	mu.Lock()
	defer mu.Unlock()

	if path == "" {
		path = DefaultLogPath()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		if mirror != nil {
			logger = log.New(mirror, "llmc: ", log.LstdFlags)
		}
		return func() {}, err
	}

	var w io.Writer = f
	if mirror != nil {
		w = io.MultiWriter(f, mirror)
	}
	logFile, logPath = f, path
	logger = log.New(w, "", log.LstdFlags|log.Lmicroseconds)

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
		logger = nil
	}, nil
}

// Logger returns the configured logger, or one that discards output.
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return logger
	}
	return discard
}

var discard = log.New(io.Discard, "", 0)

// Path returns the active log file path (empty before Init).
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// RedactForLog removes common secret patterns, IPs and emails.
func RedactForLog(s string) string {
	return redactor.RedactLog(s)
}

// Snip returns a safe prefix of s, capped by rune count.
func Snip(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	n := 0
	idx := 0
	for idx < len(s) {
		if n >= maxRunes {
			break
		}
		_, size := utf8.DecodeRuneInString(s[idx:])
		if size <= 0 {
			break
		}
		idx += size
		n++
	}

	if idx >= len(s) {
		return s
	}
	return s[:idx] + "…"
}

// Safe is RedactForLog followed by Snip.
func Safe(s string, maxRunes int) string {
	return Snip(RedactForLog(s), maxRunes)
}
