package htmlname

// The tag behavior tables below reproduce documented legacy-browser
// compatibility lists. They are deliberately not derived from the HTML5
// specification; membership is pinned to what old browsers actually did.

// literalTags are tags whose body is scanned as verbatim text until a
// matching close tag, with no markup interpretation inside.
var literalTags = keywordSet(
	KeywordScript,
	KeywordStyle,
	KeywordTextarea,
	KeywordIframe,
)

// implicitlyClosedTags close themselves without requiring an end tag.
var implicitlyClosedTags = keywordSet(
	KeywordImg,
	KeywordInput,
	KeywordLink,
	KeywordBr,
	KeywordArea,
	KeywordHr,
	KeywordWbr,
	KeywordParam,
	KeywordMeta,
)

// nonBriefCloseTags never honor an XML-style "/>" self-close; a stray
// slash before '>' inside these tags is treated as ordinary content.
var nonBriefCloseTags = keywordSet(
	KeywordA,
	KeywordDiv,
	KeywordSpan,
	KeywordScript,
	KeywordIframe,
	KeywordStyle,
	KeywordTextarea,
)

// pAutoClosers lists the tags whose opening force-closes an open <p>.
var pAutoClosers = keywordSet(
	KeywordAddress,
	KeywordArticle,
	KeywordAside,
	KeywordBlockquote,
	KeywordDiv,
	KeywordDl,
	KeywordFieldset,
	KeywordFooter,
	KeywordForm,
	KeywordH1,
	KeywordH2,
	KeywordH3,
	KeywordH4,
	KeywordH5,
	KeywordH6,
	KeywordHeader,
	KeywordHr,
	KeywordMenu,
	KeywordNav,
	KeywordOl,
	KeywordP,
	KeywordPre,
	KeywordSection,
	KeywordTable,
	KeywordUl,
)

// autoCloseTable maps an open tag to the set of tags whose opening
// force-closes it. Pairs not listed here nest normally.
var autoCloseTable = map[Keyword]map[Keyword]bool{
	KeywordP:        pAutoClosers,
	KeywordLi:       keywordSet(KeywordLi),
	KeywordDd:       keywordSet(KeywordDd, KeywordDt),
	KeywordDt:       keywordSet(KeywordDd, KeywordDt),
	KeywordTr:       keywordSet(KeywordTr),
	KeywordTd:       keywordSet(KeywordTd, KeywordTh, KeywordTr),
	KeywordTh:       keywordSet(KeywordTd, KeywordTh, KeywordTr),
	KeywordThead:    keywordSet(KeywordTbody, KeywordTfoot),
	KeywordTbody:    keywordSet(KeywordTbody, KeywordTfoot),
	KeywordTfoot:    keywordSet(KeywordTbody),
	KeywordOption:   keywordSet(KeywordOption, KeywordOptgroup),
	KeywordOptgroup: keywordSet(KeywordOptgroup),
}

func keywordSet(keywords ...Keyword) map[Keyword]bool {
	m := make(map[Keyword]bool, len(keywords))
	for _, k := range keywords {
		m[k] = true
	}
	return m
}

// IsLiteralTag reports whether the tag's body is scanned as verbatim text.
func IsLiteralTag(k Keyword) bool {
	return literalTags[k]
}

// IsImplicitlyClosed reports whether the tag closes without an end tag.
func IsImplicitlyClosed(k Keyword) bool {
	return implicitlyClosedTags[k]
}

// CanBriefClose reports whether the tag honors an XML-style "/>" close.
func CanBriefClose(k Keyword) bool {
	return k == KeywordNone || !nonBriefCloseTags[k]
}

// AutoCloses reports whether opening next while open is the innermost open
// tag force-closes open first.
func AutoCloses(open, next Keyword) bool {
	if open == KeywordNone || next == KeywordNone {
		return false
	}
	return autoCloseTable[open][next]
}
