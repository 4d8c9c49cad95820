// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"hmlt/config"
	"hmlt/registry"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Names resolves sound tags and switch names, built-in tables extended
	// with configured names file.
	Names *registry.Registry
	// RunID tags every log entry of a single invocation.
	RunID string

	// used by convert and rebuild subcommands
	NoDirs    bool
	Overwrite bool
	CodePage  encoding.Encoding
	// MetaPath replaces "<file>.meta.json" sidecar location when a single
	// file is processed.
	MetaPath string

	start         time.Time
	restoreStdLog func()
}

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		RunID: uuid.NewString(),
	}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// LoadNames prepares name registry according to configuration.
func (e *LocalEnv) LoadNames() error {
	path := ""
	if e.Cfg != nil {
		path = e.Cfg.Codec.NamesFile
	}
	names, err := registry.Load(path)
	if err != nil {
		return err
	}
	e.Names = names
	return nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
