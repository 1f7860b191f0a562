// Package yamlutil provides helpers for YAML streams holding several
// documents.
package yamlutil

import (
	"bytes"
	"regexp"
	"strings"
)

// docSeparator matches YAML document separators: a line containing only "---"
// optionally followed by whitespace.
var docSeparator = regexp.MustCompile(`(?m)^---\s*$`)

// SplitDocuments splits a multi-document YAML byte slice into individual
// documents. Documents holding only whitespace and comments are dropped.
// Each returned slice is a raw YAML document without the "---" separator.
func SplitDocuments(data []byte) [][]byte {
	var docs [][]byte

	for _, part := range docSeparator.Split(string(data), -1) {
		if hasContent(part) {
			docs = append(docs, []byte(part))
		}
	}

	return docs
}

// JoinDocuments concatenates rendered YAML documents into one stream
// separated by "---" lines. Every document ends with a newline.
func JoinDocuments(docs [][]byte) []byte {
	var buf bytes.Buffer

	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(doc)

		if len(doc) > 0 && doc[len(doc)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}

func hasContent(doc string) bool {
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return true
		}
	}

	return false
}
