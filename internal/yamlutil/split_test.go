package yamlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"empty", "", 0},
		{"single doc", "Popular: 15\n", 1},
		{"two docs", "Popular: 15\n---\nPopular: 20\n", 2},
		{"leading separator", "---\nPopular: 15\n", 1},
		{"trailing separator", "Popular: 15\n---\n", 1},
		{"separator with trailing spaces", "a: 1\n---   \nb: 2\n", 2},
		{"empty doc between separators", "a: 1\n---\n\n---\nb: 2\n", 2},
		{"whitespace-only doc", "a: 1\n---\n   \n---\nb: 2\n", 2},
		{"comment-only doc", "a: 1\n---\n# nothing here\n---\nb: 2\n", 2},
		{"separator inside value is not split", "a: \"---\"\nb: 2\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := SplitDocuments([]byte(tt.data))
			assert.Len(t, docs, tt.want)
		})
	}
}

func TestSplitDocuments_Content(t *testing.T) {
	docs := SplitDocuments([]byte("Tags: []\n---\nPopular: 20\n"))
	assert.Contains(t, string(docs[0]), "Tags")
	assert.Contains(t, string(docs[1]), "Popular")
}

func TestJoinDocuments(t *testing.T) {
	assert.Equal(t, "a: 1\n---\nb: 2\n", string(JoinDocuments([][]byte{[]byte("a: 1\n"), []byte("b: 2")})))
	assert.Empty(t, JoinDocuments(nil))
}
