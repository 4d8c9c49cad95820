package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hmlt/common"
	"hmlt/config"
	"hmlt/resource"
	"hmlt/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Transliterate = transliterate
	cfg.Output.NameTemplate = template

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func testValues(src string) *Values {
	meta := &resource.Meta{HashValue: "00CC75A2DE3FBF62", HashPath: "[assembly:/sound/dialogue/event.wav].pc_dialogevent"}
	return newValues(config.NameTemplateFieldName, meta, common.ResourceTypeDLGE, common.VersionH3, src)
}

func TestBuildOutputPath(t *testing.T) {
	src := filepath.Join("chunk0", "event.DLGE")
	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		want          string
	}{
		{"keep dirs", false, false, "", filepath.Join("/out", "chunk0", "event.DLGE.json")},
		{"no dirs", true, false, "", filepath.Join("/out", "event.DLGE.json")},
		{"transliterate", true, true, "", filepath.Join("/out", "event-dlge.json")},
		{"template", true, false, "{{ .Type | lower }}/{{ .Hash }}", filepath.Join("/out", "dlge", "00CC75A2DE3FBF62.json")},
		{"template keeps source dirs", false, false, "{{ .SourceFile }}-{{ .Game }}", filepath.Join("/out", "chunk0", "event-h3.json")},
		{"broken template falls back", true, false, "{{ .Nope", filepath.Join("/out", "event.DLGE.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			if got := buildOutputPath(testValues(src), src, "/out", env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRebuiltPath(t *testing.T) {
	src := filepath.Join("chunk0", "event.DLGE.json")

	env := setupTestEnvForOutputPath(t, false, false, "")
	if got, want := buildRebuiltPath("00CC75A2DE3FBF62.DLGE", src, "/out", env), filepath.Join("/out", "chunk0", "00CC75A2DE3FBF62.DLGE"); got != want {
		t.Errorf("buildRebuiltPath() = %q, want %q", got, want)
	}

	env.NoDirs = true
	if got, want := buildRebuiltPath("00CC75A2DE3FBF62.DLGE", src, "/out", env), filepath.Join("/out", "00CC75A2DE3FBF62.DLGE"); got != want {
		t.Errorf("buildRebuiltPath() = %q, want %q", got, want)
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", filepath.Join("dlge", "event"), []string{"dlge", "event"}},
		{"single segment", "event", []string{"event"}},
		{"three levels", filepath.Join("h3", "dlge", "event"), []string{"h3", "dlge", "event"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndCleanPath(tt.path)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndCleanPath() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndCleanPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "event", false, "event"},
		{"with spaces", "My Event", false, "My Event"},
		{"transliterate cyrillic", "Диалог", true, "dialog"},
		{"separator", "a/b", false, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")
			if result := cleanPathSegment(tt.segment, env); result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs_EmptyPath(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	if result := assemblePathWithSubdirs("/output", "", env); result != "/output" {
		t.Errorf("assemblePathWithSubdirs() with empty path = %q, want /output", result)
	}
}
