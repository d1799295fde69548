package htmlname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

func TestInternCanonicalKeyword(t *testing.T) {
	t.Parallel()

	table := htmlname.NewSymbolTable()

	sym := table.Intern("script")
	assert.Equal(t, htmlname.KeywordScript, sym.Keyword())
	assert.Equal(t, "script", sym.String())
	assert.Zero(t, table.StoredBytes(), "canonical keyword spellings cost no storage")

	// Re-interning never grows the table.
	again := table.Intern("script")
	assert.Equal(t, sym, again)
	assert.Zero(t, table.StoredBytes())
}

func TestInternRecapitalizedKeyword(t *testing.T) {
	t.Parallel()

	table := htmlname.NewSymbolTable()

	sym := table.Intern("SCRIPT")
	assert.Equal(t, htmlname.KeywordScript, sym.Keyword())
	assert.Equal(t, "SCRIPT", sym.String(), "original spelling is preserved")
	assert.Equal(t, len("SCRIPT")+1, table.StoredBytes())

	// Same spelling again: no growth, identical symbol.
	again := table.Intern("SCRIPT")
	assert.Equal(t, sym, again)
	assert.Equal(t, len("SCRIPT")+1, table.StoredBytes())

	// A different capitalization is a distinct stored spelling.
	third := table.Intern("Script")
	assert.Equal(t, htmlname.KeywordScript, third.Keyword())
	assert.Equal(t, "Script", third.String())
	assert.Equal(t, len("SCRIPT")+1+len("Script")+1, table.StoredBytes())
}

func TestInternNonKeyword(t *testing.T) {
	t.Parallel()

	table := htmlname.NewSymbolTable()

	sym := table.Intern("data-widget")
	assert.Equal(t, htmlname.KeywordNone, sym.Keyword())
	assert.Equal(t, "data-widget", sym.String())
	assert.Equal(t, len("data-widget")+1, table.StoredBytes())

	again := table.Intern("data-widget")
	assert.Equal(t, sym, again)
	assert.Equal(t, len("data-widget")+1, table.StoredBytes())
}

func TestSymbolMatches(t *testing.T) {
	t.Parallel()

	table := htmlname.NewSymbolTable()

	lower := table.Intern("div")
	upper := table.Intern("DIV")
	other := table.Intern("span")
	customA := table.Intern("x-menu")
	customB := table.Intern("X-MENU")

	assert.True(t, lower.Matches(upper))
	assert.False(t, lower.Matches(other))
	assert.True(t, customA.Matches(customB), "non-keywords match case-insensitively")
	assert.False(t, customA.Matches(lower))
}

func TestLookupKeyword(t *testing.T) {
	t.Parallel()

	assert.Equal(t, htmlname.KeywordTextarea, htmlname.LookupKeyword("textarea"))
	assert.Equal(t, htmlname.KeywordTextarea, htmlname.LookupKeyword("TextArea"))
	assert.Equal(t, htmlname.KeywordNone, htmlname.LookupKeyword("blink"))
}

func TestTagTables(t *testing.T) {
	t.Parallel()

	t.Run("literal tags", func(t *testing.T) {
		t.Parallel()
		for _, k := range []htmlname.Keyword{
			htmlname.KeywordScript, htmlname.KeywordStyle,
			htmlname.KeywordTextarea, htmlname.KeywordIframe,
		} {
			assert.True(t, htmlname.IsLiteralTag(k), k.String())
		}
		assert.False(t, htmlname.IsLiteralTag(htmlname.KeywordDiv))
	})

	t.Run("implicitly closed", func(t *testing.T) {
		t.Parallel()
		for _, k := range []htmlname.Keyword{
			htmlname.KeywordImg, htmlname.KeywordInput, htmlname.KeywordLink,
			htmlname.KeywordBr, htmlname.KeywordArea, htmlname.KeywordHr,
			htmlname.KeywordWbr, htmlname.KeywordParam, htmlname.KeywordMeta,
		} {
			assert.True(t, htmlname.IsImplicitlyClosed(k), k.String())
		}
		assert.False(t, htmlname.IsImplicitlyClosed(htmlname.KeywordP))
	})

	t.Run("brief close", func(t *testing.T) {
		t.Parallel()
		assert.False(t, htmlname.CanBriefClose(htmlname.KeywordA))
		assert.False(t, htmlname.CanBriefClose(htmlname.KeywordScript))
		assert.True(t, htmlname.CanBriefClose(htmlname.KeywordForm))
		assert.True(t, htmlname.CanBriefClose(htmlname.KeywordNone), "unknown tags may brief-close")
	})

	t.Run("auto close", func(t *testing.T) {
		t.Parallel()
		require.True(t, htmlname.AutoCloses(htmlname.KeywordP, htmlname.KeywordDiv))
		require.True(t, htmlname.AutoCloses(htmlname.KeywordLi, htmlname.KeywordLi))
		require.True(t, htmlname.AutoCloses(htmlname.KeywordTd, htmlname.KeywordTr))
		assert.False(t, htmlname.AutoCloses(htmlname.KeywordDiv, htmlname.KeywordDiv))
		assert.False(t, htmlname.AutoCloses(htmlname.KeywordP, htmlname.KeywordSpan))
		assert.False(t, htmlname.AutoCloses(htmlname.KeywordNone, htmlname.KeywordDiv))
	})
}
