package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hmlt/common"
	"hmlt/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)

		if env == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Error("Expected restoreStdLog to be set")
		}

		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: nil,
		}

		// Should not panic
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
	})
}

func TestLocalEnv_RestoreStdLog(t *testing.T) {
	t.Run("with redirect", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		// Should not panic
		env.RestoreStdLog()
	})

	t.Run("without redirect", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		// Should not panic even without redirect
		env.RestoreStdLog()
	})

	t.Run("nil logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: nil,
		}

		// Should not panic
		env.RestoreStdLog()
	})
}

func TestContextWithEnv_RunID(t *testing.T) {
	a := EnvFromContext(ContextWithEnv(context.Background()))
	b := EnvFromContext(ContextWithEnv(context.Background()))
	if len(a.RunID) == 0 {
		t.Fatal("run id not set")
	}
	if a.RunID == b.RunID {
		t.Error("run ids must differ between environments")
	}
}

func TestLocalEnv_LoadNames(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		env := &LocalEnv{}
		if err := env.LoadNames(); err != nil {
			t.Fatalf("LoadNames() error = %v", err)
		}
		if _, ok := env.Names.Switches.Hash("AI_NPC_ID"); !ok {
			t.Error("built-in switch names are missing")
		}
	})

	t.Run("external", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "names.yaml")
		if err := os.WriteFile(path, []byte("tags:\n  DEADBEEF: Custom_Tag\n"), 0644); err != nil {
			t.Fatal(err)
		}
		env := &LocalEnv{Cfg: &config.Config{Codec: config.CodecConfig{NamesFile: path}}}
		if err := env.LoadNames(); err != nil {
			t.Fatalf("LoadNames() error = %v", err)
		}
		if name, ok := env.Names.Tags.Name(0xDEADBEEF); !ok || name != "Custom_Tag" {
			t.Errorf("Name(DEADBEEF) = %q, %v", name, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		env := &LocalEnv{Cfg: &config.Config{Codec: config.CodecConfig{NamesFile: "/nonexistent/names.yaml"}}}
		if err := env.LoadNames(); err == nil {
			t.Error("expected error for missing names file")
		}
	})
}

func TestLocalEnv_CodecOptions(t *testing.T) {
	env := &LocalEnv{Cfg: &config.Config{Codec: config.CodecConfig{
		Game:          common.VersionH2016,
		DefaultLocale: "fr",
		LangMap:       "xx,fr",
		HexPrecision:  true,
		Symmetric:     true,
	}}}
	if err := env.LoadNames(); err != nil {
		t.Fatal(err)
	}

	d := env.DLGEOptions()
	if d.Version != common.VersionH2016 || d.DefaultLocale != "fr" || d.LangMap != "xx,fr" || !d.HexPrecision || !d.Symmetric {
		t.Errorf("unexpected dlge options: %+v", d)
	}
	if d.Names != env.Names {
		t.Error("dlge options must share names registry")
	}
	if l := env.LOCROptions(); l.Version != common.VersionH2016 || !l.Symmetric || l.LangMap != "xx,fr" {
		t.Errorf("unexpected locr options: %+v", l)
	}
	if c := env.CLNGOptions(); c.Version != common.VersionH2016 || c.LangMap != "xx,fr" {
		t.Errorf("unexpected clng options: %+v", c)
	}
	if o := env.DITLOptions(); o.Names != env.Names {
		t.Error("ditl options must share names registry")
	}

	// no configuration loaded yet
	if d := (&LocalEnv{}).DLGEOptions(); d.DefaultLocale != "en" {
		t.Errorf("DefaultLocale = %q, want en", d.DefaultLocale)
	}
}
