package language

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain english", "How do I find peace?", English},
		{"empty defaults to english", "", English},
		{"devanagari", "मुझे शांति कैसे मिलेगी?", Hindi},
		{"mixed latin and devanagari", "hello दोस्त", Hindi},
		{"latin with punctuation", "peace!!! <now>", English},
		{"devanagari digits", "१२३", Hindi},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Detect(c.text); got != c.want {
				t.Errorf("Detect(%q) = %q, want %q", c.text, got, c.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	if !Supported(English) || !Supported(Hindi) {
		t.Error("both corpus languages must be supported")
	}
	if Supported("latin") {
		t.Error("unknown language reported as supported")
	}
	if Default != English {
		t.Errorf("Default = %q, want %q", Default, English)
	}
}
