package resource

import "testing"

func TestIsValidHash(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00CC75A2DE3FBF62", true},
		{"00cc75a2de3fbf62", true},
		{"00CC75A2DE3FBF6", false},
		{"00CC75A2DE3FBF6Z", false},
		{"[assembly:/x].pc_dlge", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHash(tt.in); got != tt.want {
			t.Errorf("IsValidHash(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComputeHash(t *testing.T) {
	path := "[assembly:/localization/hitman6/conversations/test.sweetdialog].pc_dlge"
	if got := ComputeHash(path); got != "00CC75A2DE3FBF62" {
		t.Errorf("ComputeHash() = %s, want 00CC75A2DE3FBF62", got)
	}
	if got := ResourceID(path); got != "00CC75A2DE3FBF62" {
		t.Errorf("ResourceID() = %s", got)
	}
	if got := ResourceID("00AABBCCDDEEFF00"); got != "00AABBCCDDEEFF00" {
		t.Errorf("ResourceID() changed valid id to %s", got)
	}
}

func TestParseHash32(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"DEADBEEF", 0xDEADBEEF},
		{"deadbeef", 0xDEADBEEF},
		{"1F", 0x1F},
		{"", 0},
		{"Test_tag", 0x83820912},
		{"hello", 0x3610A686},
		{"In-world_AI_Important", 0xB1BC87E2},
		// too long to be literal value
		{"123456789", CRC32("123456789")},
	}
	for _, tt := range tests {
		if got := ParseHash32(tt.in); got != tt.want {
			t.Errorf("ParseHash32(%q) = %08X, want %08X", tt.in, got, tt.want)
		}
	}
}
