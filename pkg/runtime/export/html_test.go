package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseHTML(t *testing.T, data []byte) *html.Node {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	return root
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
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

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestHTMLWriter_Structure(t *testing.T) {
	out := render(t, NewHTMLWriter(), fixtureDocument())
	assert.True(t, bytes.HasPrefix(out, []byte("<!DOCTYPE html>")))

	root := parseHTML(t, out)

	titles := findAll(root, "title")
	require.Len(t, titles, 1)
	assert.Equal(t, "Weekly Sales Report - Week 7", textOf(titles[0]))

	h1 := findAll(root, "h1")
	require.Len(t, h1, 1)
	assert.Equal(t, "Weekly Sales Report - Week 7 (Feb 10th - Feb 16th, 2025)", textOf(h1[0]))

	var h2 []string
	for _, n := range findAll(root, "h2") {
		h2 = append(h2, textOf(n))
	}
	assert.Equal(t, []string{
		"Total Portfolio Sales",
		"Performance by Sales Executives",
		"Key Highlights",
		"Strategic Next Steps",
	}, h2)

	var h3 []string
	for _, n := range findAll(root, "h3") {
		h3 = append(h3, textOf(n))
	}
	assert.Equal(t, []string{"Alice", "Bob"}, h3)

	ol := findAll(root, "ol")
	require.Len(t, ol, 1)
	items := findAll(ol[0], "li")
	require.Len(t, items, 3)
	assert.Equal(t, "Call", textOf(items[0]))
	assert.Equal(t, "Visit", textOf(items[2]))

	assert.Len(t, findAll(root, "style"), 1)
	assert.Empty(t, findAll(root, "link"))
	assert.Empty(t, findAll(root, "script"))
}

func TestHTMLWriter_ToneClasses(t *testing.T) {
	root := parseHTML(t, render(t, NewHTMLWriter(), fixtureDocument()))

	classes := map[string][]string{}
	for _, span := range findAll(root, "span") {
		classes[attr(span, "class")] = append(classes[attr(span, "class")], textOf(span))
	}
	assert.Equal(t, []string{"-5%", "decline", "-3%"}, classes["negative"])
	assert.Equal(t, []string{"12%"}, classes["positive"])
	assert.Empty(t, findAll(root, "strong"))
	assert.Empty(t, findAll(root, "b"))
}

func TestHTMLWriter_EscapesInjectedMarkup(t *testing.T) {
	doc := fixtureDocument()
	payload := `</li></ul><script>alert("x")</script><ul><li class="x">`
	for i, b := range doc.Blocks {
		if b.Kind == domain.BlockBulletList && len(b.Lines) == 2 && b.Lines[0].Text() == "First highlight" {
			doc.Blocks[i].Lines[0] = domain.PlainLine(payload)
		}
	}
	doc.Blocks[4] = heading(3, `<img src=x onerror=alert(1)>`)

	out := render(t, NewHTMLWriter(), doc)
	root := parseHTML(t, out)

	assert.Empty(t, findAll(root, "script"))
	assert.Empty(t, findAll(root, "img"))
	assert.Len(t, findAll(root, "ul"), 4)
	assert.Len(t, findAll(root, "ol"), 1)

	var found bool
	for _, li := range findAll(root, "li") {
		if textOf(li) == payload {
			found = true
		}
	}
	assert.True(t, found, "payload should survive as text")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestHTMLWriter_Deterministic(t *testing.T) {
	first := render(t, NewHTMLWriter(), fixtureDocument())
	second := render(t, NewHTMLWriter(), fixtureDocument())
	assert.Equal(t, string(first), string(second))
}
