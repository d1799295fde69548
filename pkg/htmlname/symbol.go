package htmlname

import "strings"

// Symbol is an interned tag or attribute name. Symbols from the same
// SymbolTable compare with == in O(1); two interns of the same spelling
// yield identical Symbols.
//
// A Symbol that carries a keyword in canonical spelling stores no text of
// its own; every other spelling is stored once per distinct spelling.
type Symbol struct {
	keyword  Keyword
	spelling string // empty when the canonical keyword spelling was interned
}

// Keyword returns the keyword for this name, or KeywordNone.
// Keyword lookup is case-insensitive, so Intern("SCRIPT") still reports
// KeywordScript even though the spelling "SCRIPT" is retained.
func (s Symbol) Keyword() Keyword {
	return s.keyword
}

// String returns the name exactly as it was interned.
func (s Symbol) String() string {
	if s.spelling != "" {
		return s.spelling
	}
	return s.keyword.String()
}

// IsEmpty reports whether this is the zero Symbol.
func (s Symbol) IsEmpty() bool {
	return s.keyword == KeywordNone && s.spelling == ""
}

// Matches reports whether two names refer to the same tag or attribute,
// ignoring case. Keyword names compare by keyword; everything else falls
// back to a case-insensitive spelling comparison.
func (s Symbol) Matches(o Symbol) bool {
	if s.keyword != KeywordNone || o.keyword != KeywordNone {
		return s.keyword == o.keyword
	}
	return strings.EqualFold(s.spelling, o.spelling)
}

// SymbolTable interns name spellings for one parse context.
// It is not safe for concurrent use; each parse context owns its own table.
type SymbolTable struct {
	spellings map[string]string
	stored    int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{spellings: make(map[string]string)}
}

// Intern returns the Symbol for a spelling, storing the spelling on first
// sight unless it is the canonical spelling of a keyword.
func (t *SymbolTable) Intern(spelling string) Symbol {
	keyword := LookupKeyword(spelling)
	if keyword != KeywordNone && spelling == keyword.String() {
		return Symbol{keyword: keyword}
	}

	interned, ok := t.spellings[spelling]
	if !ok {
		// Copy so the table never pins a caller's larger backing array.
		interned = strings.Clone(spelling)
		t.spellings[interned] = interned
		t.stored += len(interned) + 1
	}
	return Symbol{keyword: keyword, spelling: interned}
}

// StoredBytes returns the total bytes of spelling data held by the table,
// counting one terminator byte per stored spelling.
func (t *SymbolTable) StoredBytes() int {
	return t.stored
}
