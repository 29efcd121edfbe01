package pkgset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Base holds the fields and bookkeeping common to every concrete Package
// implementation (spec §9 design notes): simple fields, filelist,
// dependency list, the per-package log buffer and config map, and the
// enabled flag. RPM and DEB packages embed Base and only need to implement
// format-specific behavior (Explode, Compare, Releases, License mapping).
type Base struct {
	filename string

	Nm      string
	Ep      uint64
	Vr      string
	Rl      string
	Ar      string
	Ur      string
	Lic     string
	Src     string
	files   []string
	reqs    []string
	provs   []string

	nevr string
	evr  string

	logBuf  bytes.Buffer
	logger  zerolog.Logger
	started time.Time
	verbose bool

	config map[string]string
	enabled bool
}

// NewBase constructs a Base for the container at filename.
func NewBase(filename string) *Base {
	b := &Base{
		filename: filename,
		config:   make(map[string]string),
		enabled:  true,
		started:  time.Now(),
		verbose:  os.Getenv("ASGEN_VERBOSE") != "" || os.Getenv("PROFILE") != "",
	}
	b.logger = zerolog.New(&b.logBuf).With().Timestamp().Logger()
	return b
}

func (b *Base) Filename() string { return b.filename }
func (b *Base) Basename() string { return filepath.Base(b.filename) }

func (b *Base) Name() string       { return b.Nm }
func (b *Base) Epoch() uint64      { return b.Ep }
func (b *Base) Version() string    { return b.Vr }
func (b *Base) Release() string    { return b.Rl }
func (b *Base) Arch() string       { return b.Ar }
func (b *Base) URL() string        { return b.Ur }
func (b *Base) License() string    { return b.Lic }
func (b *Base) SourceName() string { return b.Src }

func (b *Base) Filelist() []string { return b.files }
func (b *Base) Requires() []string { return b.reqs }
func (b *Base) Provides() []string { return b.provs }

// SetFilelist, SetRequires, SetProvides are used by the concrete openers
// while populating a Base.
func (b *Base) SetFilelist(f []string) { b.files = f }
func (b *Base) SetRequires(r []string) { b.reqs = r }
func (b *Base) SetProvides(p []string) { b.provs = p }

// NEVR returns the memoized Name-Epoch-Version-Release string (spec §3
// Package "Derived", §8 scenario 1).
func (b *Base) NEVR() string {
	if b.nevr == "" {
		b.nevr = b.Nm + "-" + b.EVR()
	}
	return b.nevr
}

// EVR returns the memoized Epoch-Version-Release string.
func (b *Base) EVR() string {
	if b.evr == "" {
		var out string
		if b.Ep != 0 {
			out = strconv.FormatUint(b.Ep, 10) + ":"
		}
		out += b.Vr + "-" + b.Rl
		b.evr = out
	}
	return b.evr
}

// Log appends one line to the package's log buffer, prefixed by the level
// tag. When PROFILE/ASGEN_VERBOSE is set it also adds one "elapsed" field:
// the time since the package's timer started, as a duration string. No
// delta column is written.
func (b *Base) Log(level Level, format string, args ...any) {
	if level == Debug && !b.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	ev := b.logger.Log()
	if b.verbose {
		elapsed := time.Since(b.started)
		ev = ev.Str("elapsed", elapsed.String())
	}
	ev.Str("level", level.String()).Msg(msg)
}

// LogFlush writes the accumulated log buffer to "<logDir>/<name>.log",
// overwriting (spec §4.2 log_flush()).
func (b *Base) LogFlush(logDir string) error {
	if logDir == "" {
		return nil
	}
	path := filepath.Join(logDir, b.Nm+".log")
	return os.WriteFile(path, b.logBuf.Bytes(), 0o644)
}

// ConfigGet/ConfigSet implement the run-scoped key-value store (spec §4.2,
// §6).
func (b *Base) ConfigGet(key string) (string, bool) {
	v, ok := b.config[key]
	return v, ok
}

func (b *Base) ConfigSet(key, value string) { b.config[key] = value }

func (b *Base) Enabled() bool     { return b.enabled }
func (b *Base) SetEnabled(v bool) { b.enabled = v }
