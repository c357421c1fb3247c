// Package jdtext turns pasted job descriptions into plain text. Postings
// copied from applicant tracking systems often arrive as HTML.
package jdtext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Postings exported as HTML close their block elements. Plain text that
// only names a tag, like "<section>" or "<b>", does not.
var closingBlockTag = regexp.MustCompile(`(?i)</(p|div|ul|ol|li|h[1-6]|table|tr|td|section|article|body|html)\s*>`)

const blockElements = "p, div, ul, ol, h1, h2, h3, h4, h5, h6, tr, section, article, table"

// Normalize returns description as plain text. HTML markup is rendered to
// text with one line per block element. Other text keeps every word,
// including anything between angle brackets. Whitespace inside each line,
// non-breaking spaces included, is collapsed and blank lines are dropped.
// The result is empty when nothing visible remains.
func Normalize(description string) string {
	text := description
	if LooksLikeHTML(description) {
		if rendered, ok := renderHTML(description); ok {
			text = rendered
		}
	}
	return cleanLines(text)
}

// LooksLikeHTML reports whether s is an HTML document or fragment, that
// is, whether it closes at least one block element.
func LooksLikeHTML(s string) bool {
	return closingBlockTag.MatchString(s)
}

func renderHTML(s string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", false
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("- ")
		li.AppendHtml("\n")
	})
	doc.Find(blockElements).Each(func(_ int, block *goquery.Selection) {
		block.BeforeHtml("\n")
		block.AfterHtml("\n")
	})
	return doc.Text(), true
}

func cleanLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
