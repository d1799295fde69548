// Package htmlname provides interned names for HTML tags and attributes,
// plus the fixed tag-behavior tables the parser consults.
//
// Interning a keyword in its canonical (lowercase) spelling costs no storage;
// any other spelling is stored exactly once and shared by later interns of the
// same spelling.
package htmlname

import "strings"

// Keyword identifies a known HTML tag or attribute name.
// KeywordNone marks a name that is not in the keyword registry.
type Keyword uint16

// Known tag and attribute keywords. Canonical spellings are lowercase.
const (
	KeywordNone Keyword = iota

	KeywordA
	KeywordAddress
	KeywordAlt
	KeywordArea
	KeywordArticle
	KeywordAside
	KeywordB
	KeywordBase
	KeywordBlockquote
	KeywordBody
	KeywordBr
	KeywordButton
	KeywordCaption
	KeywordClass
	KeywordCol
	KeywordColgroup
	KeywordDd
	KeywordDiv
	KeywordDl
	KeywordDt
	KeywordEm
	KeywordFieldset
	KeywordFooter
	KeywordForm
	KeywordH1
	KeywordH2
	KeywordH3
	KeywordH4
	KeywordH5
	KeywordH6
	KeywordHead
	KeywordHeader
	KeywordHr
	KeywordHref
	KeywordHTML
	KeywordI
	KeywordID
	KeywordIframe
	KeywordImg
	KeywordInput
	KeywordLi
	KeywordLink
	KeywordMenu
	KeywordMeta
	KeywordName
	KeywordNav
	KeywordNoscript
	KeywordOl
	KeywordOptgroup
	KeywordOption
	KeywordP
	KeywordParam
	KeywordPre
	KeywordRel
	KeywordScript
	KeywordSection
	KeywordSelect
	KeywordSpan
	KeywordSrc
	KeywordStrong
	KeywordStyle
	KeywordTable
	KeywordTbody
	KeywordTd
	KeywordTextarea
	KeywordTfoot
	KeywordTh
	KeywordThead
	KeywordTitle
	KeywordTr
	KeywordType
	KeywordUl
	KeywordValue
	KeywordWbr

	numKeywords
)

// canonical holds the canonical lowercase spelling of each keyword,
// indexed by Keyword value.
var canonical = [numKeywords]string{
	KeywordNone:       "",
	KeywordA:          "a",
	KeywordAddress:    "address",
	KeywordAlt:        "alt",
	KeywordArea:       "area",
	KeywordArticle:    "article",
	KeywordAside:      "aside",
	KeywordB:          "b",
	KeywordBase:       "base",
	KeywordBlockquote: "blockquote",
	KeywordBody:       "body",
	KeywordBr:         "br",
	KeywordButton:     "button",
	KeywordCaption:    "caption",
	KeywordClass:      "class",
	KeywordCol:        "col",
	KeywordColgroup:   "colgroup",
	KeywordDd:         "dd",
	KeywordDiv:        "div",
	KeywordDl:         "dl",
	KeywordDt:         "dt",
	KeywordEm:         "em",
	KeywordFieldset:   "fieldset",
	KeywordFooter:     "footer",
	KeywordForm:       "form",
	KeywordH1:         "h1",
	KeywordH2:         "h2",
	KeywordH3:         "h3",
	KeywordH4:         "h4",
	KeywordH5:         "h5",
	KeywordH6:         "h6",
	KeywordHead:       "head",
	KeywordHeader:     "header",
	KeywordHr:         "hr",
	KeywordHref:       "href",
	KeywordHTML:       "html",
	KeywordI:          "i",
	KeywordID:         "id",
	KeywordIframe:     "iframe",
	KeywordImg:        "img",
	KeywordInput:      "input",
	KeywordLi:         "li",
	KeywordLink:       "link",
	KeywordMenu:       "menu",
	KeywordMeta:       "meta",
	KeywordName:       "name",
	KeywordNav:        "nav",
	KeywordNoscript:   "noscript",
	KeywordOl:         "ol",
	KeywordOptgroup:   "optgroup",
	KeywordOption:     "option",
	KeywordP:          "p",
	KeywordParam:      "param",
	KeywordPre:        "pre",
	KeywordRel:        "rel",
	KeywordScript:     "script",
	KeywordSection:    "section",
	KeywordSelect:     "select",
	KeywordSpan:       "span",
	KeywordSrc:        "src",
	KeywordStrong:     "strong",
	KeywordStyle:      "style",
	KeywordTable:      "table",
	KeywordTbody:      "tbody",
	KeywordTd:         "td",
	KeywordTextarea:   "textarea",
	KeywordTfoot:      "tfoot",
	KeywordTh:         "th",
	KeywordThead:      "thead",
	KeywordTitle:      "title",
	KeywordTr:         "tr",
	KeywordType:       "type",
	KeywordUl:         "ul",
	KeywordValue:      "value",
	KeywordWbr:        "wbr",
}

// keywordIndex maps canonical lowercase spellings to keywords.
// Built once; safe to share read-only across parse contexts.
var keywordIndex = buildKeywordIndex()

func buildKeywordIndex() map[string]Keyword {
	m := make(map[string]Keyword, numKeywords)
	for k := Keyword(1); k < numKeywords; k++ {
		m[canonical[k]] = k
	}
	return m
}

// String returns the canonical spelling of the keyword, or "" for KeywordNone.
func (k Keyword) String() string {
	if k >= numKeywords {
		return ""
	}
	return canonical[k]
}

// LookupKeyword finds the keyword for a spelling, case-insensitively.
// Returns KeywordNone if the spelling is not a registered keyword.
func LookupKeyword(spelling string) Keyword {
	if k, ok := keywordIndex[spelling]; ok {
		return k
	}
	if k, ok := keywordIndex[strings.ToLower(spelling)]; ok {
		return k
	}
	return KeywordNone
}
