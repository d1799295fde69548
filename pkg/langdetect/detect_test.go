package langdetect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gohtmlrewrite/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", langdetect.LangText},
		{"doctype", "<!DOCTYPE html><html></html>", langdetect.LangHTML},
		{"html tag only", "<HTML><BODY>x</BODY></HTML>", langdetect.LangHTML},
		{"fragment with div", `<div class="c">x</div>`, langdetect.LangHTML},
		{"conditional comment", "<!--[if IE]>x<![endif]-->", langdetect.LangHTML},
		{"generic markup", "<article>text</article>", langdetect.LangHTML},
		{"xml declaration", `<?xml version="1.0"?><root/>`, langdetect.LangXML},
		{"plain prose", "Just a sentence. Nothing else here.", langdetect.LangText},
		{"json", `{"key": "value", "n": 1}`, langdetect.LangText},
		{"less-than in prose", "3 < 5 and that is all", langdetect.LangText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestIsHTML(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsHTML([]byte("<p>hi</p>")))
	assert.True(t, langdetect.IsHTML([]byte(`<?xml version="1.0"?><feed/>`)))
	assert.False(t, langdetect.IsHTML([]byte("plain words")))
}

func TestDetectLargeInput(t *testing.T) {
	t.Parallel()

	// The marker sits past the sniff window; a huge text preamble must
	// not make detection quadratic or flip the answer for the window.
	content := strings.Repeat("x", 64*1024) + "<html>"
	assert.Equal(t, langdetect.LangText, langdetect.Detect([]byte(content)))
}
