package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	conf := &ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	return r
}

func archiveNames(t *testing.T, name string) map[string]bool {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	return names
}

func TestReportClose_RemovesScratchCopies(t *testing.T) {
	r := newTestReport(t)

	src := t.TempDir()
	for name, data := range map[string][]byte{"broken.dlge": {1, 2, 3}, "broken.dlge.meta.json": []byte("{}")} {
		if err := os.WriteFile(filepath.Join(src, name), data, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		if err := r.StoreCopy("input/"+name, filepath.Join(src, name)); err != nil {
			t.Fatalf("StoreCopy() error: %v", err)
		}
	}
	if len(r.scratch) != 2 {
		t.Fatalf("expected two scratch dirs, got %d", len(r.scratch))
	}
	scratch := slices.Clone(r.scratch)

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	for _, dir := range scratch {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			os.RemoveAll(dir)
			t.Errorf("expected scratch dir to be removed, but it still exists")
		}
	}
	// original input must survive
	if _, err := os.Stat(filepath.Join(src, "broken.dlge")); err != nil {
		t.Errorf("stored input should not be removed, got: %v", err)
	}

	names := archiveNames(t, name)
	for _, want := range []string{"MANIFEST", "input/broken.dlge", "input/broken.dlge.meta.json"} {
		if !names[want] {
			t.Errorf("report is missing %q, has %v", want, names)
		}
	}
}

func TestReport_StoreCopyRejectsDirectory(t *testing.T) {
	r := newTestReport(t)
	defer r.Close()

	if err := r.StoreCopy("input", t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	if err := r.StoreCopy("input", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
	if len(r.entries) != 0 {
		t.Errorf("expected no entries, got %d", len(r.entries))
	}
}

func TestReport_Manifest(t *testing.T) {
	r := newTestReport(t)

	r.StoreData("tree/10-b.txt", []byte("b"))
	r.StoreData("tree/9-a.txt", []byte("aa"))
	r.Store("gone.log", filepath.Join(t.TempDir(), "gone.log"))

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	var order []string
	for _, f := range zr.File {
		order = append(order, f.Name)
	}
	if want := []string{"MANIFEST", "tree/9-a.txt", "tree/10-b.txt"}; !slices.Equal(order, want) {
		t.Fatalf("archive order = %v, want %v", order, want)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("manifest has %d lines:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "\tgone.log\t-\t") || !strings.HasSuffix(lines[0], "(missing)") {
		t.Errorf("missing file is not marked: %q", lines[0])
	}
	if !strings.Contains(lines[1], "\ttree/9-a.txt\t2\t") {
		t.Errorf("unexpected manifest line %q", lines[1])
	}
}

func TestReport_StoreCopyVersionsNames(t *testing.T) {
	r := newTestReport(t)

	f := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := r.StoreCopy("a.json", f); err != nil {
			t.Fatalf("StoreCopy() error: %v", err)
		}
	}
	if len(r.entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(r.entries))
	}
	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	var versioned bool
	for n := range archiveNames(t, name) {
		if strings.HasPrefix(n, "a.json-") {
			versioned = true
		}
	}
	if !versioned {
		t.Error("second copy was not versioned")
	}
}

func TestReport_StoreData(t *testing.T) {
	r := newTestReport(t)
	r.StoreData("config.yaml", []byte("version: 1\n"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate data entry")
		}
		r.Close()
	}()
	r.StoreData("config.yaml", []byte("again"))
}

func TestReport_ConcurrentStore(t *testing.T) {
	r := newTestReport(t)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.StoreData(filepath.Join("data", string(rune('a'+i))), []byte{byte(i)})
		}()
	}
	wg.Wait()

	if len(r.entries) != 16 {
		t.Errorf("expected 16 entries, got %d", len(r.entries))
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("nil report should have no name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
