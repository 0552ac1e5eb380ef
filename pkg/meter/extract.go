package meter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/dormpower/powermon/pkg/powerinfo"
)

// Labels on the vendor page, in its content language.
const (
	labelMeterName       = "表名称"
	labelMeterID         = "表号"
	labelRemainingKWh    = "剩余电量"
	labelRemainingAmount = "剩余金额"
	labelPricePerKWh     = "综合费用"
)

// SnippetLimit bounds the plain-text digest of the page.
const SnippetLimit = 2000

// Extract scrapes the meter fields and a plain-text snippet out of the page.
// Absent labels leave their fields nil; only an unparseable document is an
// error.
func Extract(htmlText string) (powerinfo.PowerInfo, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return powerinfo.PowerInfo{}, "", pkgerrors.Wrap(err, "failed to parse page")
	}

	info := powerinfo.PowerInfo{
		MeterName:          findValue(doc, labelMeterName),
		MeterID:            findValue(doc, labelMeterID),
		RemainingKWh:       parseNumeric(findValue(doc, labelRemainingKWh)),
		RemainingAmountCNY: parseNumeric(findValue(doc, labelRemainingAmount)),
		PricePerKWh:        parseNumeric(findValue(doc, labelPricePerKWh)),
	}

	logrus.WithFields(logrus.Fields{
		"meterName":    info.MeterName != nil,
		"meterID":      info.MeterID != nil,
		"remainingKWh": info.RemainingKWh != nil,
	}).Debug("extracted meter fields")

	return info, snippet(doc), nil
}

// normalizeLabel reduces a caption to a bare token: the fullwidth colon
// becomes ASCII, then all whitespace and colons are dropped. "表 名称：" and
// "表名称" normalize identically.
func normalizeLabel(text string) string {
	text = strings.ReplaceAll(text, "：", ":")
	text = strings.Join(strings.Fields(text), "")
	return strings.ReplaceAll(text, ":", "")
}

// parseNumeric coerces a scraped value to a float, tolerating thousands
// separators. Anything unparseable is treated as absent, not as an error.
func parseNumeric(value *string) *float64 {
	if value == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(*value, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// findValue locates a labeled reading. The page renders captions in span
// elements and readings in label elements, but not as strict siblings, so the
// value is the first label element in document order after the first span
// whose normalized text starts with the keyword. A matching span with no
// label after it does not stop the scan.
func findValue(doc *goquery.Document, keyword string) *string {
	target := normalizeLabel(keyword)

	var found *string
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		spanText := strippedText(s.Nodes[0])
		if spanText == "" {
			return true
		}
		if !strings.HasPrefix(normalizeLabel(spanText), target) {
			return true
		}
		if label := nextElement(s.Nodes[0], "label"); label != nil {
			text := strippedText(label)
			found = &text
			return false
		}
		return true
	})
	return found
}

// nextElement returns the first element named tag after n in document order,
// descendants of n included.
func nextElement(n *html.Node, tag string) *html.Node {
	for c := nextNode(n); c != nil; c = nextNode(c) {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// nextNode is the preorder successor of n.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// strippedText concatenates the text of n's descendants, each segment
// trimmed of surrounding whitespace.
func strippedText(n *html.Node) string {
	var b strings.Builder
	for _, s := range strippedStrings(n) {
		b.WriteString(s)
	}
	return b.String()
}

// strippedStrings returns the non-blank text segments under n in document
// order, trimmed.
func strippedStrings(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			if s := strings.TrimSpace(c.Data); s != "" {
				out = append(out, s)
			}
			return
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// snippet digests the whole page into a single whitespace-collapsed line of
// at most SnippetLimit characters, truncated at a word boundary with a
// trailing ellipsis when the page is longer.
func snippet(doc *goquery.Document) string {
	var parts []string
	for _, n := range doc.Nodes {
		parts = append(parts, strippedStrings(n)...)
	}
	words := strings.Fields(strings.Join(parts, " "))
	text := strings.Join(words, " ")
	if utf8.RuneCountInString(text) <= SnippetLimit {
		return text
	}

	const placeholder = "..."
	budget := SnippetLimit - utf8.RuneCountInString(placeholder)
	kept := ""
	for _, w := range words {
		candidate := w
		if kept != "" {
			candidate = kept + " " + w
		}
		if utf8.RuneCountInString(candidate) > budget {
			break
		}
		kept = candidate
	}
	return kept + placeholder
}
