package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Tag
	}{
		{"en", English},
		{"nl", Dutch},
		{"de", German},
		{"xx", English},
		{"", English},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInstructionAlwaysNonEmpty(t *testing.T) {
	for _, tag := range Supported() {
		if Instruction(tag) == "" {
			t.Errorf("no instruction for %q", tag)
		}
	}
	if Instruction(Tag("zz")) != "Respond in English" {
		t.Error("unknown tag should fall back to the English instruction")
	}
}
