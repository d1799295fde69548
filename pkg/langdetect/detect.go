// Package langdetect decides whether input content is HTML worth feeding
// to the rewriting engine. It combines cheap structural fast paths with a
// go-enry classifier fallback for ambiguous content.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language constants for detected content kinds.
const (
	LangHTML = "html"
	LangXML  = "xml"
	LangText = "text"
)

// sniffLimit caps how much of a document the detector inspects; markup
// shows its hand early.
const sniffLimit = 8 * 1024

// htmlMarkers are structural patterns that settle detection immediately,
// matched case-insensitively against the sniff window.
var htmlMarkers = [][]byte{
	[]byte("<!doctype html"),
	[]byte("<html"),
	[]byte("<head"),
	[]byte("<body"),
	[]byte("<div"),
	[]byte("<span"),
	[]byte("<table"),
	[]byte("<script"),
	[]byte("<!--[if"),
	[]byte("<a href"),
	[]byte("<meta"),
	[]byte("<link"),
	[]byte("<img"),
	[]byte("<p>"),
	[]byte("<br"),
}

// IsHTML reports whether content should be treated as HTML.
func IsHTML(content []byte) bool {
	switch Detect(content) {
	case LangHTML, LangXML:
		return true
	default:
		return false
	}
}

// Detect classifies content as html, xml, or text.
func Detect(content []byte) string {
	if len(content) == 0 {
		return LangText
	}

	window := content
	if len(window) > sniffLimit {
		window = window[:sniffLimit]
	}
	lower := bytes.ToLower(window)

	if lang := detectByPattern(lower); lang != "" {
		return lang
	}

	// Ambiguous content goes to the classifier, restricted to the kinds
	// we can act on; low-confidence answers fall through to text.
	candidates := []string{"HTML", "XML", "Text", "Markdown"}
	if lang, safe := enry.GetLanguageByClassifier(window, candidates); safe {
		return normalize(lang)
	}

	return LangText
}

// detectByPattern applies the structural fast paths.
func detectByPattern(lower []byte) string {
	for _, marker := range htmlMarkers {
		if bytes.Contains(lower, marker) {
			return LangHTML
		}
	}

	trimmed := bytes.TrimSpace(lower)
	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return LangXML
	}
	// Markup-shaped but unrecognized: a leading tag still counts when a
	// matching close tag or another tag follows.
	if len(trimmed) > 2 && trimmed[0] == '<' && isASCIILetter(trimmed[1]) &&
		bytes.Count(trimmed, []byte("<")) >= 2 {
		return LangHTML
	}
	return ""
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// normalize converts go-enry language names to our tags.
func normalize(lang string) string {
	switch strings.ToLower(lang) {
	case "html":
		return LangHTML
	case "xml":
		return LangXML
	default:
		return LangText
	}
}
