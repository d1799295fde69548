package htmldom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

func TestAttributeValueDistinctions(t *testing.T) {
	t.Parallel()

	names := htmlname.NewSymbolTable()

	bare := htmldom.NewValuelessAttribute(names.Intern("disabled"))
	assert.False(t, bare.HasValue())
	_, ok := bare.EscapedValue()
	assert.False(t, ok)
	_, ok = bare.DecodedValue()
	assert.False(t, ok)
	assert.False(t, bare.DecodeError(), "no value is not a decode error")

	empty := htmldom.NewAttribute(names.Intern("alt"), "", htmldom.QuoteDouble)
	assert.True(t, empty.HasValue())
	v, ok := empty.EscapedValue()
	assert.True(t, ok)
	assert.Empty(t, v)
	v, ok = empty.DecodedValue()
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestAttributeSeparator(t *testing.T) {
	t.Parallel()

	names := htmlname.NewSymbolTable()

	attr := htmldom.NewValuelessAttribute(names.Intern("checked"))
	assert.Equal(t, " ", attr.Separator(), "synthesized attributes get one space")

	attr.SetSeparator("")
	assert.Empty(t, attr.Separator())

	attr.SetSeparator("\t ")
	assert.Equal(t, "\t ", attr.Separator())
}

func TestAttributeDecode(t *testing.T) {
	t.Parallel()

	names := htmlname.NewSymbolTable()

	tests := []struct {
		name    string
		escaped string
		want    string
		wantErr bool
	}{
		{"plain", "hello", "hello", false},
		{"named entities", "a&amp;b&lt;c&gt;d", "a&b<c>d", false},
		{"quotes", "&quot;x&quot; &apos;y&apos;", `"x" 'y'`, false},
		{"decimal reference", "&#65;BC", "ABC", false},
		{"hex reference", "&#x41;BC", "ABC", false},
		{"bare ampersand kept", "a&b", "a&b", false},
		{"unterminated reference kept", "a&ampb", "a&ampb", false},
		{"unknown named entity", "&bogus;", "", true},
		{"bad numeric reference", "&#xZZ;", "", true},
		{"zero code point", "&#0;", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			attr := htmldom.NewAttribute(names.Intern("href"), tt.escaped, htmldom.QuoteDouble)
			got, ok := attr.DecodedValue()
			if tt.wantErr {
				assert.False(t, ok)
				assert.True(t, attr.DecodeError())
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.False(t, attr.DecodeError())

			// The escaped form is untouched by decoding.
			escaped, _ := attr.EscapedValue()
			assert.Equal(t, tt.escaped, escaped)
		})
	}
}
