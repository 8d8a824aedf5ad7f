package svg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() (*Node, *Node) {
	img := El("image", A("href", "data:x"), A("x", "10"))
	root := El("svg", A("xmlns", Namespace)).Append(
		El("rect", A("width", "100")),
		El("g").Append(El("circle"), img),
	)
	return root, img
}

func TestNode_Attrs(t *testing.T) {
	n := El("rect", A("x", "1"))
	n.Set("x", "2")
	n.Set("y", "3.5")

	v, ok := n.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	f, ok := n.Float("y")
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	n.Del("x")
	_, ok = n.Get("x")
	assert.False(t, ok)
	assert.Equal(t, []Attr{{"y", "3.5"}}, n.Attrs)
}

func TestNode_FindAndInsertBefore(t *testing.T) {
	root, img := sample()

	assert.Same(t, img, root.Find("image"))
	assert.Nil(t, root.Find("path"))

	plate := El("rect", A("id", "plate"))
	require.True(t, root.InsertBefore(img, plate))

	g := root.Children[1]
	require.Len(t, g.Children, 3)
	assert.Same(t, plate, g.Children[1])
	assert.Same(t, img, g.Children[2])

	assert.False(t, root.InsertBefore(El("nope"), plate))
}

func TestNode_Remove(t *testing.T) {
	root, img := sample()
	assert.True(t, root.Remove(img))
	assert.Nil(t, root.Find("image"))
	assert.False(t, root.Remove(img))
}

func TestNode_CloneIsDeep(t *testing.T) {
	root, _ := sample()
	clone := root.Clone()
	clone.Find("image").Set("x", "99")

	v, _ := root.Find("image").Get("x")
	assert.Equal(t, "10", v)
	assert.Len(t, clone.FindAll("rect"), 1)
}

func TestNode_Encode(t *testing.T) {
	root := El("svg", A("width", "10")).Append(El("rect", A("fill", `a"b&c`)))

	var buf bytes.Buffer
	require.NoError(t, root.Encode(&buf))
	assert.Equal(t, `<svg width="10"><rect fill="a&#34;b&amp;c"/></svg>`, buf.String())
	assert.True(t, bytes.HasPrefix(root.Bytes(), []byte(`<?xml`)))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "150", Num(150))
	assert.Equal(t, "37.5", Num(37.5))
	assert.Equal(t, "-3", Num(-3))
}
