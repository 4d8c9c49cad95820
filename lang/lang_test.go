package lang

import (
	"slices"
	"testing"

	"hmlt/common"
)

func TestDefault(t *testing.T) {
	h2t := Default(common.VersionH2)
	h2016 := Default(common.VersionH2016)
	h3t := Default(common.VersionH3)

	if len(h2t) != 13 || h2t[12] != "tc" {
		t.Fatalf("h2 table = %v", h2t)
	}
	if !slices.Equal(h2016, h2t[:12]) {
		t.Errorf("h2016 table = %v, want h2 without tc", h2016)
	}
	if h3t.String() != "xx,en,fr,it,de,es,ru,cn,tc,jp" {
		t.Errorf("h3 table = %v", h3t)
	}

	// tables must not share storage
	h2016[0] = "zz"
	if Default(common.VersionH2)[0] != "xx" {
		t.Error("Default() returned shared slice")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"xx,en,fr", "xx,en,fr"},
		{"xx,,en,", "xx,en"},
		{" xx , en ", "xx,en"},
		{"", ""},
		{",,,", ""},
	}
	for _, tt := range tests {
		if got := Parse(tt.in).String(); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveOverride(t *testing.T) {
	tbl := Resolve(common.VersionH3, "en,xx")
	if tbl.String() != "en,xx" {
		t.Fatalf("Resolve() = %v", tbl)
	}
	if tbl.Index("xx") != 1 || tbl.Index("de") != -1 {
		t.Errorf("Index() = %d/%d", tbl.Index("xx"), tbl.Index("de"))
	}
	if Resolve(common.VersionH3, ",").String() != Default(common.VersionH3).String() {
		t.Error("empty override must fall back to default table")
	}
	if len(ResolveStrings(common.VersionH2016, "")) != 13 {
		t.Error("string tables use full h2 list for h2016")
	}
}

func TestFlag(t *testing.T) {
	tests := map[int]string{0: "80", 1: "81", 12: "8C"}
	for idx, want := range tests {
		if got := Flag(idx); got != want {
			t.Errorf("Flag(%d) = %s, want %s", idx, got, want)
		}
	}
}
