package content

import (
	"strings"
	"testing"
)

func TestDedupeTitleHeading(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "duplicate removed",
			input:    "# Title\n\nIntro.\n\n# Title\n\nMore.",
			expected: "# Title\n\nIntro.\n\n\n\nMore.",
		},
		{
			name:     "other headings kept",
			input:    "# Title\n\n## Title\n\n# Other",
			expected: "# Title\n\n## Title\n\n# Other",
		},
		{
			name:     "regex characters in title",
			input:    "# Growth (2x) [fast]?\ntext\n# Growth (2x) [fast]?\n",
			expected: "# Growth (2x) [fast]?\ntext\n\n",
		},
		{
			name:     "no heading",
			input:    "Plain text\n\nwith ## inline markers.",
			expected: "Plain text\n\nwith ## inline markers.",
		},
	}
	for _, tt := range tests {
		got := DedupeTitleHeading(tt.input)
		if got != tt.expected {
			t.Errorf("%s: DedupeTitleHeading(%q) = %q, want %q", tt.name, tt.input, got, tt.expected)
		}
	}
}

func TestDedupeTitleHeadingKeepsExactlyOne(t *testing.T) {
	got := DedupeTitleHeading("# Title\n\nbody\n\n# Title\n\n# Title")
	if n := strings.Count(got, "# Title"); n != 1 {
		t.Errorf("found %d title headings in %q, want 1", n, got)
	}
}

func TestNormalizeEmbedsBareURL(t *testing.T) {
	input := "# Video\n\nhttps://youtu.be/dQw4w9WgXcQ\n"
	got := NormalizeEmbeds(input)
	if !strings.Contains(got, "\nyoutube:dQw4w9WgXcQ\n") {
		t.Errorf("NormalizeEmbeds(%q) = %q, want marker line", input, got)
	}
	if strings.Contains(got, "youtu.be") {
		t.Errorf("NormalizeEmbeds(%q) = %q, URL should be gone", input, got)
	}
}

func TestNormalizeEmbedsRequiresElevenCharacterID(t *testing.T) {
	for _, input := range []string{
		"# Video\n\nhttps://youtu.be/abc\n",
		"# Video\n\nhttps://youtu.be/abcdefghijkl\n",
		"Watch https://www.youtube.com/watch?v=short now.",
		"Watch https://www.youtube.com/watch?v=abcdefghijklm now.",
	} {
		got := NormalizeEmbeds(input)
		if got != input {
			t.Errorf("NormalizeEmbeds(%q) = %q, want unchanged", input, got)
		}
		if strings.Contains(got, "youtube:") {
			t.Errorf("NormalizeEmbeds(%q) produced a marker for an invalid id", input)
		}
	}
}

func TestNormalizeEmbedsInSentence(t *testing.T) {
	input := "Watch this https://www.youtube.com/watch?v=abcdefghijk&t=42 right now. Then relax."
	got := NormalizeEmbeds(input)
	if !strings.Contains(got, "\n\nyoutube:abcdefghijk\n\n") {
		t.Errorf("NormalizeEmbeds(%q) = %q, want marker", input, got)
	}
	if !strings.HasPrefix(got, "Watch this ") {
		t.Errorf("NormalizeEmbeds(%q) = %q, leading text lost", input, got)
	}
	if !strings.Contains(got, " right now. Then relax.") {
		t.Errorf("NormalizeEmbeds(%q) = %q, trailing text lost", input, got)
	}
	if strings.Contains(got, "t=42") {
		t.Errorf("NormalizeEmbeds(%q) = %q, query string should be dropped", input, got)
	}
}

func TestNormalizeEmbedsLeavesOtherLinks(t *testing.T) {
	input := "See https://example.com/watch?v=abc for details."
	if got := NormalizeEmbeds(input); got != input {
		t.Errorf("NormalizeEmbeds(%q) = %q, want unchanged", input, got)
	}
}

func TestNormalizeImages(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"![a](https://cdn.example.com/a.png)", "![a](https://cdn.example.com/a.png)"},
		{"![a](./images/a.png)", "![a](images/a.png)"},
		{"![a](/images/a.png)", "![a](images/a.png)"},
		{"![a](images/a.png)", "![a](images/a.png)"},
		{"Look:\nhttps://cdn.example.com/pic.JPG\n", "Look:\n![Image](https://cdn.example.com/pic.JPG)\n"},
		{"https://a.com/1.png https://a.com/2.gif", "![Image](https://a.com/1.png) ![Image](https://a.com/2.gif)"},
		{"[link](https://a.com/1.png)", "[link](https://a.com/1.png)"},
		{"https://a.com/page.html", "https://a.com/page.html"},
	}
	for _, tt := range tests {
		got := NormalizeImages(tt.input)
		if got != tt.expected {
			t.Errorf("NormalizeImages(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestProcessOrder(t *testing.T) {
	input := "# Title\n\nIntro.\n\n# Title\n\nhttps://youtu.be/dQw4w9WgXcQ\n\n![x](./a.png)\n"
	got := Process(input)
	if strings.Count(got, "# Title") != 1 {
		t.Errorf("Process kept duplicate heading: %q", got)
	}
	if !strings.Contains(got, "youtube:dQw4w9WgXcQ") {
		t.Errorf("Process missing video marker: %q", got)
	}
	if !strings.Contains(got, "![x](a.png)") {
		t.Errorf("Process missing normalized image: %q", got)
	}
}
