package htmldom

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

// QuoteStyle records how an attribute value was quoted in the source.
type QuoteStyle uint8

const (
	QuoteNone QuoteStyle = iota
	QuoteSingle
	QuoteDouble
)

// Delimiter returns the quote character as a string ("" for QuoteNone).
func (q QuoteStyle) Delimiter() string {
	switch q {
	case QuoteSingle:
		return "'"
	case QuoteDouble:
		return `"`
	default:
		return ""
	}
}

// Attribute is one attribute of an element. The escaped value is kept
// exactly as written; the decoded value is computed on first request and
// a malformed entity sets a sticky decode-error flag instead of failing
// the parse.
//
// An attribute written without '=' has no value at all, which is distinct
// from an empty value ('a' vs 'a=""').
type Attribute struct {
	Name  htmlname.Symbol
	Quote QuoteStyle

	sep      string
	escaped  string
	hasValue bool

	decoded     string
	decodeErr   bool
	decodedOnce bool
}

// NewAttribute builds an attribute with a value.
func NewAttribute(name htmlname.Symbol, escaped string, quote QuoteStyle) Attribute {
	return Attribute{Name: name, Quote: quote, sep: " ", escaped: escaped, hasValue: true}
}

// NewValuelessAttribute builds an attribute written without '='.
func NewValuelessAttribute(name htmlname.Symbol) Attribute {
	return Attribute{Name: name, sep: " "}
}

// Separator returns the bytes written between the previous attribute (or
// the tag name) and this attribute's name. Synthesized attributes get a
// single space; the parser records the source bytes, which may be empty
// for quirks like a slash jammed against the tag name.
func (a *Attribute) Separator() string { return a.sep }

// SetSeparator overrides the separator bytes.
func (a *Attribute) SetSeparator(sep string) { a.sep = sep }

// HasValue reports whether the attribute was written with '='.
func (a *Attribute) HasValue() bool { return a.hasValue }

// EscapedValue returns the value exactly as written, and whether a value
// exists at all.
func (a *Attribute) EscapedValue() (string, bool) {
	return a.escaped, a.hasValue
}

// DecodedValue returns the entity-decoded value. ok is false when the
// attribute has no value or the escaped text contained a malformed entity;
// the decode error is recorded once and the parse never fails for it.
func (a *Attribute) DecodedValue() (string, bool) {
	if !a.hasValue {
		return "", false
	}
	if !a.decodedOnce {
		a.decoded, a.decodeErr = decodeEntities(a.escaped)
		a.decodedOnce = true
	}
	if a.decodeErr {
		return "", false
	}
	return a.decoded, true
}

// DecodeError reports whether decoding the value failed. It forces the
// lazy decode.
func (a *Attribute) DecodeError() bool {
	_, _ = a.DecodedValue()
	return a.hasValue && a.decodeErr
}

// namedEntities are the entities the decoder recognizes by name.
var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
	"nbsp": "\u00a0",
}

// decodeEntities expands &name; and &#N; / &#xN; references. A reference
// that cannot be decoded marks the whole value as erroneous; a bare '&'
// that does not begin a reference is kept literally, matching browser
// behavior for unescaped ampersands.
func decodeEntities(s string) (string, bool) {
	if !strings.ContainsRune(s, '&') {
		return s, false
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		semi := strings.IndexByte(s[i+1:], ';')
		if semi < 0 {
			// No terminator anywhere: literal ampersand.
			b.WriteString(s[i:])
			break
		}
		ref := s[i+1 : i+1+semi]
		expansion, ok := expandReference(ref)
		if !ok {
			if looksLikeReference(ref) {
				return "", true
			}
			// "&;" or "& foo;": not a reference shape, keep literally.
			b.WriteByte('&')
			i++
			continue
		}
		b.WriteString(expansion)
		i += semi + 2
	}
	return b.String(), false
}

func expandReference(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if ref[0] == '#' {
		digits := ref[1:]
		base := 10
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			base = 16
		}
		n, err := strconv.ParseUint(digits, base, 32)
		if err != nil || n == 0 || n > 0x10FFFF {
			return "", false
		}
		return string(rune(n)), true
	}
	expansion, ok := namedEntities[ref]
	return expansion, ok
}

// looksLikeReference reports whether ref has the shape of an entity
// reference, so a failed expansion counts as a decode error rather than
// literal text.
func looksLikeReference(ref string) bool {
	if ref == "" {
		return false
	}
	if ref[0] == '#' {
		return true
	}
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum {
			return false
		}
	}
	return true
}
