package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter(t *testing.T) {
	tests := []struct {
		name  string
		write func(tw *TreeWriter)
		want  string
	}{
		{"empty", func(*TreeWriter) {}, ""},
		{"line", func(tw *TreeWriter) { tw.Line(2, "%s = %d", "count", 5) }, "    count = 5\n"},
		{"text empty", func(tw *TreeWriter) { tw.TextBlock(0, "en", "") }, "en: \n"},
		{"text quoted", func(tw *TreeWriter) { tw.TextBlock(1, "en", "say \"hi\"\n") }, "  en: \"say \\\"hi\\\"\\n\"\n"},
		{"hex empty", func(tw *TreeWriter) { tw.Hex(0, "fr", nil) }, "fr: [0]\n"},
		{"hex short", func(tw *TreeWriter) { tw.Hex(1, "fr", []byte{0x2A, 0xD9, 0x11}) }, "  fr: [3] 2A D9 11\n"},
		{"hex cut", func(tw *TreeWriter) { tw.Hex(0, "fr", make([]byte, 40)) }, "fr: [40]" + strings.Repeat(" 00", maxHexBytes) + " ...\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tt.write(tw)
			if got := tw.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_ResourceTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Switch key=%s default=%s", "AI_NPC_ID", "DIALOGUE_NPC_MENDOLA")
	tw.Line(1, "case %v", []string{"DIALOGUE_NPC_MENDOLA"})
	tw.Line(2, "WavFile soundtag=%s", "In-world_AI_Important")
	tw.TextBlock(3, "en", "Hello there")
	tw.Hex(3, "fr", []byte{1, 2})

	want := "Switch key=AI_NPC_ID default=DIALOGUE_NPC_MENDOLA\n" +
		"  case [DIALOGUE_NPC_MENDOLA]\n" +
		"    WavFile soundtag=In-world_AI_Important\n" +
		"      en: \"Hello there\"\n" +
		"      fr: [2] 01 02\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
