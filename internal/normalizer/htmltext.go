package normalizer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateSelectors lists elements stripped before extracting page text.
// Best-effort boilerplate removal, not a correctness requirement.
const boilerplateSelectors = "script, style, noscript, nav, header, footer"

// HTMLToText strips an HTML document to readable text: boilerplate elements
// removed, remaining text line-collapsed.
func HTMLToText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(boilerplateSelectors).Remove()

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	for _, line := range strings.Split(root.Text(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(trimmed)
	}

	return b.String(), nil
}
