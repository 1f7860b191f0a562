package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumur/transformer/internal/tree"
)

func testTree() *tree.Object {
	tag := tree.NewObject()
	tag.Set("tag_id", 1)
	tag.Set("name", "<b>go</b>")

	o := tree.NewObject()
	o.Set("title", "post")
	o.Set("tags", []interface{}{tag})
	o.Set("author", "ann")

	return o
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func TestSerializeJSON_KeepsOrder(t *testing.T) {
	out, err := SerializeJSON(testTree(), 2)
	require.NoError(t, err)

	s := string(out)
	assert.Less(t, strings.Index(s, "title"), strings.Index(s, "tags"))
	assert.Less(t, strings.Index(s, "tags"), strings.Index(s, "author"))
	assert.Less(t, strings.Index(s, "tag_id"), strings.Index(s, `"name"`))
}

func TestSerializeJSON_Indent(t *testing.T) {
	out, err := SerializeJSON(map[string]interface{}{"a": 1}, 4)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", string(out))
}

func TestSerializeJSON_Compact(t *testing.T) {
	out, err := SerializeJSON(testTree(), 0)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"post","tags":[{"tag_id":1,"name":"<b>go</b>"}],"author":"ann"}`+"\n", string(out))
}

func TestSerializeJSON_Unsupported(t *testing.T) {
	_, err := SerializeJSON(map[string]interface{}{"ch": make(chan int)}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serializing JSON")
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

func TestSerializeYAML_KeepsOrder(t *testing.T) {
	out, err := SerializeYAML(testTree(), 2)
	require.NoError(t, err)

	assert.Equal(t, `title: post
tags:
  - tag_id: 1
    name: <b>go</b>
author: ann
`, string(out))
}

func TestSerializeYAML_DefaultIndent(t *testing.T) {
	a, err := SerializeYAML(testTree(), 0)
	require.NoError(t, err)

	b, err := SerializeYAML(testTree(), 2)
	require.NoError(t, err)

	assert.Equal(t, string(b), string(a))
}

func TestSerializeYAML_Scalar(t *testing.T) {
	out, err := SerializeYAML("text", 2)
	require.NoError(t, err)
	assert.Equal(t, "text\n", string(out))
}

// ---------------------------------------------------------------------------
// Serialize
// ---------------------------------------------------------------------------

func TestSerialize_Dispatch(t *testing.T) {
	j, err := Serialize(testTree(), DefaultSerializeOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(j), "{"))

	y, err := Serialize(testTree(), SerializeOptions{Format: "YAML", Indent: 2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(y), "title: post"))
}

func TestSerialize_UnknownFormat(t *testing.T) {
	_, err := Serialize(testTree(), SerializeOptions{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}
