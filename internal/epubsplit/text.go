package epubsplit

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that end a line of extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "li": true,
	"blockquote": true, "section": true, "article": true, "hr": true,
	"tr": true,
}

// htmlToText renders an XHTML chapter document as plain text: one line per
// block element, blank runs collapsed.
func htmlToText(data []byte) string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Serialized web novels ship each chapter with the same aggregator footer.
// Read aloud it is pure noise, so strip every known variant.
var promoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\*\*\*\s*Discord:.*?Remove Ads From \$\d+`),
	regexp.MustCompile(`(?i)Discord:\s*https://dsc\.gg/\S+`),
	regexp.MustCompile(`(?i)Link to donations in the discord!?`),
	regexp.MustCompile(`(?is)Enhance your reading experience.*?Remove Ads From \$\d+`),
	regexp.MustCompile(`(?i)Remove Ads From \$\d+`),
}

var (
	sceneBreakRule = regexp.MustCompile(`\n\s*\*\*\*\s*\n`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
)

// stripPromos removes aggregator footers and collapses the whitespace the
// removal leaves behind.
func stripPromos(text string) string {
	for _, p := range promoPatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = sceneBreakRule.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// extractNavLinks pulls title/href pairs out of an EPUB3 nav document. The
// toc nav is preferred; if no nav carries an epub:type, every anchor in the
// document is taken.
func extractNavLinks(data []byte) []tocEntry {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var tocNav, firstNav *html.Node
	var findNavs func(n *html.Node)
	findNavs = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "nav" {
			if firstNav == nil {
				firstNav = n
			}
			for _, attr := range n.Attr {
				if strings.HasSuffix(attr.Key, "type") && attr.Val == "toc" {
					tocNav = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findNavs(c)
		}
	}
	findNavs(doc)

	root := tocNav
	if root == nil {
		root = firstNav
	}
	if root == nil {
		root = doc
	}

	var entries []tocEntry
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
				}
			}
			title := strings.Join(strings.Fields(nodeText(n)), " ")
			if href != "" && title != "" {
				entries = append(entries, tocEntry{Title: title, Href: href})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)
	return entries
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
