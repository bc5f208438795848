// Package adf converts Atlassian Document Format trees into flat display
// strings. The conversion is presentation-only: paragraphs and bullet lists are
// flattened, every other block type is ignored, and no round trip back to the
// structured form is supported.
package adf

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	nodeTypeParagraphConstant          = "paragraph"
	nodeTypeBulletListConstant         = "bulletList"
	nodeTypeTextConstant               = "text"
	bulletItemPrefixConstant           = "- "
	paragraphSeparatorConstant         = "\n\n"
	listItemSeparatorConstant          = "\n"
	documentParseErrorTemplateConstant = "unable to parse document: %w"
)

// Node models one block of an Atlassian Document Format tree.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Document is the root of an Atlassian Document Format tree.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Parse decodes raw document JSON. Empty input yields an empty document.
func Parse(rawDocument []byte) (Document, error) {
	if len(rawDocument) == 0 {
		return Document{}, nil
	}

	var document Document
	if unmarshalError := json.Unmarshal(rawDocument, &document); unmarshalError != nil {
		return Document{}, fmt.Errorf(documentParseErrorTemplateConstant, unmarshalError)
	}

	return document, nil
}

// RenderText flattens the document into a markdown-flavored display string.
// Paragraphs become text lines separated by blank lines and bullet lists become
// "- item" lines. Unrecognized block types are skipped.
func RenderText(document Document) string {
	renderedBuilder := strings.Builder{}

	for _, block := range document.Content {
		switch block.Type {
		case nodeTypeParagraphConstant:
			renderedBuilder.WriteString(collectText(block.Content))
			renderedBuilder.WriteString(paragraphSeparatorConstant)
		case nodeTypeBulletListConstant:
			for _, listItem := range block.Content {
				for _, itemBlock := range listItem.Content {
					renderedBuilder.WriteString(bulletItemPrefixConstant)
					renderedBuilder.WriteString(collectText(itemBlock.Content))
					renderedBuilder.WriteString(listItemSeparatorConstant)
				}
			}
			renderedBuilder.WriteString(listItemSeparatorConstant)
		}
	}

	return strings.TrimSpace(renderedBuilder.String())
}

func collectText(runs []Node) string {
	textBuilder := strings.Builder{}
	for _, run := range runs {
		if run.Type != nodeTypeTextConstant {
			continue
		}
		textBuilder.WriteString(run.Text)
	}
	return textBuilder.String()
}
