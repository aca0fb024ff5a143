package unicode

import "testing"

func TestScan_CleanText(t *testing.T) {
	inputs := []string{
		"",
		"add a login form with validation",
		"multi\nline\tprompt is fine",
		"accented résumé and 中文 are fine",
	}
	for _, in := range inputs {
		res := Scan(in)
		if !res.Clean {
			t.Errorf("Scan(%q) flagged clean text: %+v", in, res.Findings)
		}
		if res.Sanitized != in {
			t.Errorf("Scan(%q) altered clean text: %q", in, res.Sanitized)
		}
	}
}

func TestScan_FlagsSmuggling(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category string
	}{
		{"zero width space", "dele\u200bte everything", "zero-width"},
		{"word joiner", "run\u2060 this", "zero-width"},
		{"rtl override", "safe\u202etxt.exe", "bidi-override"},
		{"isolate", "text\u2066hidden\u2069", "bidi-override"},
		{"tag characters", "hello\U000E0041\U000E0042", "tag-char"},
		{"escape byte", "prompt\x1b[31m", "control-char"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.input)
			if res.Clean {
				t.Fatalf("expected findings for %q", tt.input)
			}
			found := false
			for _, c := range res.Categories() {
				if c == tt.category {
					found = true
				}
			}
			if !found {
				t.Errorf("expected category %q, got %v", tt.category, res.Categories())
			}
		})
	}
}

func TestScan_SanitizedDropsFlaggedRunes(t *testing.T) {
	res := Scan("dele\u200bte")
	if res.Sanitized != "delete" {
		t.Errorf("Sanitized = %q, want %q", res.Sanitized, "delete")
	}
}

func TestScan_InvalidUTF8(t *testing.T) {
	res := Scan("ok\xff\xfeok")
	if res.Clean {
		t.Fatal("expected invalid-utf8 finding")
	}
	if res.Sanitized != "okok" {
		t.Errorf("Sanitized = %q, want %q", res.Sanitized, "okok")
	}
}
