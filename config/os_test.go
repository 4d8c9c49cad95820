package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00CC75A2DE3FBF62.DLGE", "00CC75A2DE3FBF62.DLGE"},
		{"a/b", "ab"},
		{"", "_bad_resource_name_"},
		{"/", "_bad_resource_name_"},
		{"x\x00y", "xy"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
