package htmlparse

import (
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

// lexerState enumerates the scanner's explicit states. The machine is
// restartable at any byte boundary: a chunk may end mid-tag, mid-entity,
// or mid-anything, and the next chunk resumes with no event loss.
type lexerState uint8

const (
	stateStart lexerState = iota

	stateTag      // consumed '<', deciding what construct follows
	stateTagOpen  // scanning an open tag's name
	stateTagClose // scanning a close tag's name
	stateTagCloseTerminate
	stateTagBriefClose

	stateBang // consumed "<!"

	stateCommentStart1 // consumed "<!-"
	stateCommentBody
	stateCommentEnd1 // trailing '-'
	stateCommentEnd2 // trailing "--"

	stateCdataStart1 // consumed "<![", expecting 'C'
	stateCdataStart2
	stateCdataStart3
	stateCdataStart4
	stateCdataStart5
	stateCdataStart6
	stateCdataBody
	stateCdataEnd1 // trailing ']'
	stateCdataEnd2 // trailing "]]"

	stateIEAlt // "<![" not followed by CDATA[; if/endif markers land here

	stateTagAttribute // between attributes, skipping whitespace
	stateTagAttrName
	stateTagAttrNameSpace
	stateTagAttrEq
	stateTagAttrVal
	stateTagAttrValSq
	stateTagAttrValDq

	stateLiteralTag        // inside script/style/textarea/iframe body
	stateLiteralCloseMaybe // literal body ends with "</name"; next byte decides
	stateLiteralClose      // discarding stray close-tag bytes until '>'

	stateDirective
)

// lexer is the byte-stream state machine. It owns the document-spanning
// open-element stack; the event window the context buffers comes and goes
// at every flush, but the stack survives across flushes.
type lexer struct {
	ctx   *ParseContext
	state lexerState
	line  int

	// text accumulates pending Characters content; it is emitted as one
	// node when the next markup construct is recognized. textLine is the
	// line its first byte appeared on.
	text     strings.Builder
	textLine int

	// raw holds every byte consumed since the '<' that opened the current
	// construct, so an unparseable construct can degrade to literal text
	// with byte-accurate fidelity.
	raw     strings.Builder
	tagLine int
	tagName strings.Builder
	element *htmldom.Node

	attrName  strings.Builder
	attrValue strings.Builder
	attrQuote htmldom.QuoteStyle

	// attrSep collects the whitespace run preceding the next attribute;
	// curAttrSep freezes it when that attribute's first byte arrives, so
	// the source spacing survives serialization.
	attrSep    strings.Builder
	curAttrSep string

	body strings.Builder // comment/CDATA/directive/IE-alt contents

	literal     strings.Builder
	literalName string // lowercase tag name whose close we are hunting
	literalBody int    // length of literal content excluding the close tag

	stack []*htmldom.Node
}

func newLexer(ctx *ParseContext) *lexer {
	return &lexer{ctx: ctx, state: stateStart, line: 1, textLine: 1}
}

// top returns the innermost open element, or nil at document level.
func (l *lexer) top() *htmldom.Node {
	if len(l.stack) == 0 {
		return nil
	}
	return l.stack[len(l.stack)-1]
}

func (l *lexer) pop() *htmldom.Node {
	top := l.top()
	l.stack = l.stack[:len(l.stack)-1]
	return top
}

func (l *lexer) warn(format string, args ...any) {
	l.ctx.handler.Warning(l.ctx.urlStr, l.tagLine, format, args...)
}

// parse consumes one chunk. Chunk boundaries are invisible to the state
// machine: all partial-construct state lives in the lexer's buffers.
func (l *lexer) parse(chunk []byte) {
	for _, c := range chunk {
		l.evalByte(c)
		if c == '\n' {
			l.line++
		}
	}
}

// appendText adds literal content, pinning the line number of the first
// byte of the run.
func (l *lexer) appendText(s string) {
	if l.text.Len() == 0 {
		l.textLine = l.line
	}
	l.text.WriteString(s)
}

func (l *lexer) appendTextByte(c byte) {
	if l.text.Len() == 0 {
		l.textLine = l.line
	}
	l.text.WriteByte(c)
}

// emitText flushes pending Characters, if any. Called before every other
// event so text is naturally coalesced at the lexer level.
func (l *lexer) emitText() {
	if l.text.Len() == 0 {
		return
	}
	l.ctx.emitCharacters(l.text.String(), l.textLine)
	l.text.Reset()
}

// degrade abandons the construct in progress: everything consumed since
// its '<' is restored as literal text, honoring the rule that
// unrecognized bytes are retained and emitted verbatim.
func (l *lexer) degrade() {
	l.appendText(l.raw.String())
	l.resetConstruct()
}

func (l *lexer) resetConstruct() {
	l.raw.Reset()
	l.tagName.Reset()
	l.attrName.Reset()
	l.attrValue.Reset()
	l.attrSep.Reset()
	l.curAttrSep = ""
	l.body.Reset()
	l.element = nil
	l.state = stateStart
}

// evalByte advances the machine by one input byte.
func (l *lexer) evalByte(c byte) {
	if l.state != stateStart && !l.inLiteral() {
		l.raw.WriteByte(c)
	}

	switch l.state {
	case stateStart:
		l.evalStart(c)
	case stateTag:
		l.evalTag(c)
	case stateTagOpen:
		l.evalTagOpen(c)
	case stateTagClose:
		l.evalTagClose(c)
	case stateTagCloseTerminate:
		l.evalTagCloseTerminate(c)
	case stateTagBriefClose:
		l.evalTagBriefClose(c)
	case stateBang:
		l.evalBang(c)
	case stateCommentStart1:
		l.evalCommentStart1(c)
	case stateCommentBody:
		l.evalCommentBody(c)
	case stateCommentEnd1:
		l.evalCommentEnd1(c)
	case stateCommentEnd2:
		l.evalCommentEnd2(c)
	case stateCdataStart1, stateCdataStart2, stateCdataStart3,
		stateCdataStart4, stateCdataStart5, stateCdataStart6:
		l.evalCdataStart(c)
	case stateCdataBody:
		l.evalCdataBody(c)
	case stateCdataEnd1:
		l.evalCdataEnd1(c)
	case stateCdataEnd2:
		l.evalCdataEnd2(c)
	case stateIEAlt:
		l.evalIEAlt(c)
	case stateTagAttribute:
		l.evalTagAttribute(c)
	case stateTagAttrName:
		l.evalTagAttrName(c)
	case stateTagAttrNameSpace:
		l.evalTagAttrNameSpace(c)
	case stateTagAttrEq:
		l.evalTagAttrEq(c)
	case stateTagAttrVal:
		l.evalTagAttrVal(c)
	case stateTagAttrValSq:
		l.evalTagAttrValQuoted(c, '\'')
	case stateTagAttrValDq:
		l.evalTagAttrValQuoted(c, '"')
	case stateLiteralTag:
		l.evalLiteralTag(c)
	case stateLiteralCloseMaybe:
		l.evalLiteralCloseMaybe(c)
	case stateLiteralClose:
		l.evalLiteralClose(c)
	case stateDirective:
		l.evalDirective(c)
	}
}

func (l *lexer) inLiteral() bool {
	switch l.state {
	case stateLiteralTag, stateLiteralCloseMaybe, stateLiteralClose:
		return true
	default:
		return false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagFirstChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagChar(c byte) bool {
	return isTagFirstChar(c) || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == ':' || c == '.'
}

// isAttrNameChar accepts anything that cannot mean something else inside a
// tag, so quirky names like `"foo"` survive a round trip.
func isAttrNameChar(c byte) bool {
	return !isSpace(c) && c != '=' && c != '>' && c != '/' && c != '<'
}

func (l *lexer) evalStart(c byte) {
	if c == '<' {
		l.raw.Reset()
		l.raw.WriteByte('<')
		l.tagLine = l.line
		l.state = stateTag
		return
	}
	l.appendTextByte(c)
}

func (l *lexer) evalTag(c byte) {
	switch {
	case isTagFirstChar(c):
		l.tagName.WriteByte(c)
		l.state = stateTagOpen
	case c == '/':
		l.state = stateTagClose
	case c == '!':
		l.state = stateBang
	case c == '?':
		l.body.WriteByte('?')
		l.state = stateDirective
	case c == '<':
		// "<<": the first '<' is content, the second may start a tag.
		l.appendText("<")
		l.raw.Reset()
		l.raw.WriteByte('<')
		l.tagLine = l.line
	default:
		// Not a tag after all ('<?', '< ', '<3', '<δ', ...).
		l.degrade()
	}
}

func (l *lexer) evalTagOpen(c byte) {
	switch {
	case isTagChar(c):
		l.tagName.WriteByte(c)
	case isSpace(c):
		l.makeElement()
		l.attrSep.WriteByte(c)
		l.state = stateTagAttribute
	case c == '>':
		l.makeElement()
		l.emitTagOpen(false)
	case c == '/':
		l.makeElement()
		if l.canBriefClose() {
			l.state = stateTagBriefClose
			return
		}
		// Jammed against the tag name, as in "<a/>": the slash is an
		// attribute with no separator at all.
		l.startAttr()
		l.attrName.WriteByte('/')
		l.state = stateTagAttrName
	default:
		l.degrade()
	}
}

func (l *lexer) evalTagClose(c byte) {
	switch {
	case isTagChar(c) && !(l.tagName.Len() == 0 && !isTagFirstChar(c)):
		l.tagName.WriteByte(c)
	case c == '>':
		if l.tagName.Len() == 0 {
			l.warn("empty close tag")
			l.degrade()
			return
		}
		l.emitTagClose()
	case isSpace(c) && l.tagName.Len() > 0:
		l.state = stateTagCloseTerminate
	case c == '/' && l.tagName.Len() > 0:
		l.state = stateTagCloseTerminate
	default:
		l.degrade()
	}
}

// evalTagCloseTerminate discards stray attributes or a trailing slash on a
// close tag, per the quirk that close tags may carry (and lose) them.
func (l *lexer) evalTagCloseTerminate(c byte) {
	if c == '>' {
		l.warn("ignoring extra bytes on close tag </%s>", l.tagName.String())
		l.emitTagClose()
	}
}

// evalTagBriefClose is only reached for tags that may brief-close; in the
// never-brief-close set a '/' is ordinary attribute content instead.
func (l *lexer) evalTagBriefClose(c byte) {
	if c == '>' {
		l.emitTagOpen(true)
		return
	}
	// "/" mid-tag that closes nothing: drop it and resume attribute
	// scanning. The whitespace around the dropped slash collapses to a
	// single separator.
	l.warn("stray '/' inside tag <%s>", l.element.Elem.Name)
	if isSpace(c) {
		l.attrSep.Reset()
	} else if l.attrSep.Len() == 0 {
		l.attrSep.WriteByte(' ')
	}
	l.state = stateTagAttribute
	l.evalTagAttribute(c)
}

func (l *lexer) evalBang(c byte) {
	switch c {
	case '-':
		l.state = stateCommentStart1
	case '[':
		l.state = stateCdataStart1
	case '>':
		// "<!>" is an empty directive.
		l.emitDirective()
	default:
		l.body.WriteByte('!')
		l.body.WriteByte(c)
		l.state = stateDirective
	}
}

func (l *lexer) evalCommentStart1(c byte) {
	if c == '-' {
		l.state = stateCommentBody
		return
	}
	// "<!-x": a directive that happens to start with a dash.
	l.body.WriteString("!-")
	l.state = stateDirective
	l.evalDirective(c)
}

func (l *lexer) evalCommentBody(c byte) {
	switch c {
	case '-':
		l.state = stateCommentEnd1
	case '>':
		// An IE conditional-comment opener ends at a bare '>'.
		if isIEOpenMarker(l.body.String()) {
			l.emitText()
			l.ctx.emitLeaf(htmldom.NodeIEDirective, "<!--"+l.body.String()+">", l.tagLine)
			l.resetConstruct()
			return
		}
		l.body.WriteByte(c)
	default:
		l.body.WriteByte(c)
	}
}

func (l *lexer) evalCommentEnd1(c byte) {
	if c == '-' {
		l.state = stateCommentEnd2
		return
	}
	l.body.WriteByte('-')
	l.state = stateCommentBody
	l.evalCommentBody(c)
}

func (l *lexer) evalCommentEnd2(c byte) {
	switch c {
	case '>':
		l.emitText()
		l.ctx.emitLeaf(htmldom.NodeComment, l.body.String(), l.tagLine)
		l.resetConstruct()
	case '-':
		// "--->": the earliest "-->" wins; earlier dashes are content.
		l.body.WriteByte('-')
	default:
		l.body.WriteString("--")
		l.state = stateCommentBody
		l.evalCommentBody(c)
	}
}

// isIEOpenMarker recognizes the "[if ...]" shape of a Microsoft
// conditional-comment opener.
func isIEOpenMarker(body string) bool {
	lower := strings.ToLower(body)
	return strings.HasPrefix(lower, "[if") && strings.HasSuffix(lower, "]")
}

// isIEAltMarker recognizes the revealed/closing conditional shapes that
// arrive via "<![": "if ...]", "endif]", and "endif]--".
func isIEAltMarker(body string) bool {
	lower := strings.ToLower(body)
	if strings.HasPrefix(lower, "if") && strings.HasSuffix(lower, "]") {
		return true
	}
	return lower == "endif]" || lower == "endif]--"
}

func (l *lexer) evalCdataStart(c byte) {
	expect := [...]byte{'C', 'D', 'A', 'T', 'A', '['}
	idx := int(l.state - stateCdataStart1)
	if c == expect[idx] {
		if l.state == stateCdataStart6 {
			l.state = stateCdataBody
		} else {
			l.state++
		}
		return
	}
	// Not CDATA; collect what we consumed and hunt for an IE marker.
	l.body.WriteString(string(expect[:idx]))
	l.state = stateIEAlt
	l.evalIEAlt(c)
}

func (l *lexer) evalIEAlt(c byte) {
	if c != '>' {
		l.body.WriteByte(c)
		return
	}
	if isIEAltMarker(l.body.String()) {
		l.emitText()
		l.ctx.emitLeaf(htmldom.NodeIEDirective, "<!["+l.body.String()+">", l.tagLine)
		l.resetConstruct()
		return
	}
	l.warn("malformed <![...> construct treated as text")
	l.degrade()
}

func (l *lexer) evalCdataBody(c byte) {
	if c == ']' {
		l.state = stateCdataEnd1
		return
	}
	l.body.WriteByte(c)
}

func (l *lexer) evalCdataEnd1(c byte) {
	if c == ']' {
		l.state = stateCdataEnd2
		return
	}
	l.body.WriteByte(']')
	l.state = stateCdataBody
	l.evalCdataBody(c)
}

func (l *lexer) evalCdataEnd2(c byte) {
	switch c {
	case '>':
		l.emitText()
		l.ctx.emitLeaf(htmldom.NodeCDATA, l.body.String(), l.tagLine)
		l.resetConstruct()
	case ']':
		l.body.WriteByte(']')
	default:
		l.body.WriteString("]]")
		l.state = stateCdataBody
		l.evalCdataBody(c)
	}
}

func (l *lexer) evalDirective(c byte) {
	if c == '>' {
		l.emitDirective()
		return
	}
	l.body.WriteByte(c)
}

func (l *lexer) emitDirective() {
	l.emitText()
	l.ctx.emitLeaf(htmldom.NodeDirective, l.body.String(), l.tagLine)
	l.resetConstruct()
}

// --- attributes ----------------------------------------------------------

func (l *lexer) evalTagAttribute(c byte) {
	switch {
	case isSpace(c):
		l.attrSep.WriteByte(c)
	case c == '>':
		l.emitTagOpen(false)
	case c == '/':
		if l.canBriefClose() {
			l.state = stateTagBriefClose
			return
		}
		l.startAttr()
		l.attrName.WriteByte('/')
		l.state = stateTagAttrName
	case c == '=':
		// Valueless '=': keep an empty-named attribute so the bytes
		// survive serialization.
		l.startAttr()
		l.state = stateTagAttrEq
	default:
		l.startAttr()
		l.attrName.WriteByte(c)
		l.state = stateTagAttrName
	}
}

func (l *lexer) evalTagAttrName(c byte) {
	switch {
	case isAttrNameChar(c):
		l.attrName.WriteByte(c)
	case isSpace(c):
		l.state = stateTagAttrNameSpace
	case c == '=':
		l.state = stateTagAttrEq
	case c == '>':
		l.finishAttr(false)
		l.emitTagOpen(false)
	case c == '/':
		if l.canBriefClose() {
			l.finishAttr(false)
			l.state = stateTagBriefClose
			return
		}
		l.attrName.WriteByte('/')
	default:
		l.degrade()
	}
}

func (l *lexer) evalTagAttrNameSpace(c byte) {
	switch {
	case isSpace(c):
		l.attrSep.WriteByte(c)
	case c == '=':
		// Spacing inside "name = value" is not kept.
		l.attrSep.Reset()
		l.state = stateTagAttrEq
	case c == '>':
		l.finishAttr(false)
		l.emitTagOpen(false)
	case c == '/':
		l.finishAttr(false)
		if l.canBriefClose() {
			l.state = stateTagBriefClose
			return
		}
		l.startAttr()
		l.attrName.WriteByte('/')
		l.state = stateTagAttrName
	case isAttrNameChar(c):
		l.finishAttr(false)
		l.startAttr()
		l.attrName.WriteByte(c)
		l.state = stateTagAttrName
	default:
		l.degrade()
	}
}

func (l *lexer) evalTagAttrEq(c byte) {
	switch {
	case isSpace(c):
	case c == '"':
		l.attrQuote = htmldom.QuoteDouble
		l.state = stateTagAttrValDq
	case c == '\'':
		l.attrQuote = htmldom.QuoteSingle
		l.state = stateTagAttrValSq
	case c == '>':
		l.attrQuote = htmldom.QuoteNone
		l.finishAttr(true)
		l.emitTagOpen(false)
	default:
		l.attrQuote = htmldom.QuoteNone
		l.attrValue.WriteByte(c)
		l.state = stateTagAttrVal
	}
}

func (l *lexer) evalTagAttrVal(c byte) {
	switch {
	case isSpace(c):
		l.finishAttr(true)
		l.attrSep.WriteByte(c)
		l.state = stateTagAttribute
	case c == '>':
		l.finishAttr(true)
		l.emitTagOpen(false)
	default:
		// '/' is a legal unquoted-value byte: <img src=x/> has the
		// value "x/" and no brief close.
		l.attrValue.WriteByte(c)
	}
}

func (l *lexer) evalTagAttrValQuoted(c byte, quote byte) {
	if c == quote {
		l.finishAttr(true)
		l.state = stateTagAttribute
		return
	}
	l.attrValue.WriteByte(c)
}

// startAttr begins a new attribute, freezing the separator bytes that
// preceded its first character.
func (l *lexer) startAttr() {
	l.curAttrSep = l.attrSep.String()
	l.attrSep.Reset()
	l.attrName.Reset()
}

// canBriefClose reports whether the element under construction honors
// "/>"; inside the never-brief-close set a '/' is ordinary content.
func (l *lexer) canBriefClose() bool {
	return htmlname.CanBriefClose(l.element.Keyword())
}

// finishAttr records the attribute under construction on the element.
func (l *lexer) finishAttr(hasValue bool) {
	name := l.ctx.symbols.Intern(l.attrName.String())
	var attr htmldom.Attribute
	if hasValue {
		attr = htmldom.NewAttribute(name, l.attrValue.String(), l.attrQuote)
	} else {
		attr = htmldom.NewValuelessAttribute(name)
	}
	attr.SetSeparator(l.curAttrSep)
	l.element.Elem.Attributes = append(l.element.Elem.Attributes, attr)
	l.attrName.Reset()
	l.attrValue.Reset()
	l.attrQuote = htmldom.QuoteNone
	l.curAttrSep = ""
}

// --- tag emission --------------------------------------------------------

// makeElement builds the element node once its name is complete. The
// parent is fixed later, at emission, after auto-closing runs.
func (l *lexer) makeElement() {
	l.ctx.nodeSeq++
	name := l.ctx.symbols.Intern(l.tagName.String())
	l.element = htmldom.NewElementNode(nil, name, l.ctx.nodeSeq)
}

// emitTagOpen finishes an open tag at its '>'. It applies the auto-close
// table, fixes the parent, and routes literal and implicitly-closed tags.
func (l *lexer) emitTagOpen(brief bool) {
	l.emitText()
	e := l.element
	kw := e.Keyword()

	for top := l.top(); top != nil && htmlname.AutoCloses(top.Keyword(), kw); top = l.top() {
		l.pop()
		l.ctx.closeElement(top, htmldom.CloseAuto, l.tagLine)
	}

	e.Parent = l.top()
	l.ctx.addElement(e, l.tagLine)

	switch {
	case brief:
		l.ctx.closeElement(e, htmldom.CloseBrief, l.tagLine)
	case htmlname.IsImplicitlyClosed(kw):
		l.ctx.closeElement(e, htmldom.CloseImplicit, l.tagLine)
	case htmlname.IsLiteralTag(kw):
		l.stack = append(l.stack, e)
		l.literal.Reset()
		l.literalName = strings.ToLower(e.Elem.Name.String())
		l.literalBody = 0
		l.resetConstruct()
		l.state = stateLiteralTag
		return
	default:
		l.stack = append(l.stack, e)
	}
	l.resetConstruct()
}

// emitTagClose finishes a close tag at its '>'. An unexpected close tag
// searches the stack innermost-to-outermost; every unmatched element
// skipped is force-closed as unclosed, preserving stack discipline. A
// close tag matching nothing at all degrades to literal text.
func (l *lexer) emitTagClose() {
	name := l.ctx.symbols.Intern(l.tagName.String())

	match := -1
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.stack[i].Elem.Name.Matches(name) {
			match = i
			break
		}
	}
	if match < 0 {
		l.warn("close tag </%s> matches no open tag; treating as text", l.tagName.String())
		l.degrade()
		return
	}

	l.emitText()
	for len(l.stack)-1 > match {
		skipped := l.pop()
		l.warn("force-closing <%s> (opened at line %d) for </%s>",
			skipped.Elem.Name, skipped.Elem.BeginLine, l.tagName.String())
		l.ctx.closeElement(skipped, htmldom.CloseUnclosed, l.tagLine)
	}
	matched := l.pop()
	l.ctx.closeElement(matched, htmldom.CloseExplicit, l.tagLine)
	l.resetConstruct()
}

// --- literal tags --------------------------------------------------------

func (l *lexer) evalLiteralTag(c byte) {
	l.literal.WriteByte(c)
	if l.matchesLiteralClose() {
		l.literalBody = l.literal.Len() - len(l.literalName) - 2
		l.state = stateLiteralCloseMaybe
	}
}

// matchesLiteralClose reports whether the literal buffer now ends with
// "</name" for the open literal tag, case-insensitively.
func (l *lexer) matchesLiteralClose() bool {
	want := len(l.literalName) + 2
	buf := l.literal.String()
	if len(buf) < want {
		return false
	}
	tail := buf[len(buf)-want:]
	return tail[0] == '<' && tail[1] == '/' &&
		strings.EqualFold(tail[2:], l.literalName)
}

// evalLiteralCloseMaybe inspects the byte after "</name". A name byte
// means the close tag was a longer name ("</scripty") and the hunt
// resumes; anything else commits to closing.
func (l *lexer) evalLiteralCloseMaybe(c byte) {
	if isTagChar(c) {
		l.literal.WriteByte(c)
		l.state = stateLiteralTag
		return
	}
	if c == '>' {
		l.closeLiteral()
		return
	}
	if !isSpace(c) && c != '/' {
		l.warn("ignoring stray %q on </%s>", string(c), l.literalName)
	}
	l.state = stateLiteralClose
}

// evalLiteralClose discards stray attributes or a slash on a literal
// close tag until its '>'.
func (l *lexer) evalLiteralClose(c byte) {
	if c == '>' {
		l.closeLiteral()
	}
}

// closeLiteral emits the literal body and the explicit close.
func (l *lexer) closeLiteral() {
	if l.literalBody > 0 {
		l.appendText(l.literal.String()[:l.literalBody])
		// The body belongs inside the element, so it must be emitted
		// before the close event.
		l.emitText()
	}
	e := l.pop()
	l.ctx.closeElement(e, htmldom.CloseExplicit, l.line)
	l.literal.Reset()
	l.literalName = ""
	l.resetConstruct()
}

// --- end of input --------------------------------------------------------

// finish recovers from whatever state end-of-input interrupted:
// accumulated text and literal bodies are emitted (consumed bytes are
// never dropped silently), partial tags and comments are discarded with a
// warning, and every element left open is force-closed as unclosed so
// filters always see balanced events.
func (l *lexer) finish() {
	switch {
	case l.state == stateStart:
	case l.inLiteral():
		body := l.literal.String()
		if l.state != stateLiteralTag {
			body = body[:l.literalBody]
			l.warn("unterminated </%s> at end of input discarded", l.literalName)
		}
		if len(body) > 0 {
			l.appendText(body)
		}
		l.literal.Reset()
	default:
		l.warn("unterminated construct %q at end of input discarded", l.raw.String())
		l.resetConstruct()
	}
	l.state = stateStart
	l.emitText()

	for len(l.stack) > 0 {
		e := l.pop()
		l.ctx.handler.Warning(l.ctx.urlStr, l.line,
			"<%s> opened at line %d was never closed", e.Elem.Name, e.Elem.BeginLine)
		l.ctx.closeElement(e, htmldom.CloseUnclosed, l.line)
	}
}
