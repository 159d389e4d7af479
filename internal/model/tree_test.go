package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_EnsurePath(t *testing.T) {
	tree := NewTree()

	s1 := tree.EnsurePath("r.snippets", "loops")
	s1["forloop"] = "for (i in 1:n) {}"
	s2 := tree.EnsurePath("r.snippets", "loops")

	assert.Equal(t, "for (i in 1:n) {}", s2["forloop"], "EnsurePath must return the live map")
	assert.Len(t, tree, 1)
	assert.Len(t, tree["r.snippets"], 1)
}

func TestTree_PutGetDelete(t *testing.T) {
	tree := NewTree()
	tree.Put("source.r", "loops", "whileloop", "while (cond) {}")

	body, ok := tree.Get("source.r", "loops", "whileloop")
	require.True(t, ok)
	assert.Equal(t, "while (cond) {}", body)

	_, ok = tree.Get("source.r", "missing", "whileloop")
	assert.False(t, ok)

	tree.Delete("source.r", "loops", "whileloop")
	_, ok = tree.Get("source.r", "loops", "whileloop")
	assert.False(t, ok)
	assert.Contains(t, tree["source.r"], "loops", "Delete keeps the section map")

	// Deleting from an absent path is a no-op.
	tree.Delete("nope", "nope", "nope")
}

func TestTree_SortedAccessors(t *testing.T) {
	tree := NewTree()
	tree.Put("b", "z", "n2", "x")
	tree.Put("b", "", "n1", "x")
	tree.Put("a", "m", "n3", "x")
	tree.Put("b", "z", "n0", "x")

	assert.Equal(t, []string{"a", "b"}, tree.Languages())
	assert.Equal(t, []string{"", "z"}, tree.Sections("b"))
	assert.Equal(t, []string{"n0", "n2"}, tree.Names("b", "z"))
	assert.Empty(t, tree.Sections("missing"))
}

func TestTree_FindSection(t *testing.T) {
	tree := NewTree()
	tree.Put("py", "", "defn", "a")
	tree.Put("py", "zeta", "defn", "b")
	tree.Put("py", "alpha", "defn", "c")

	section, ok := tree.FindSection("py", "defn")
	require.True(t, ok)
	assert.Equal(t, "alpha", section)

	_, ok = tree.FindSection("py", "missing")
	assert.False(t, ok)
}

func TestTree_CategorizedIndex(t *testing.T) {
	tree := NewTree()
	tree.Put("py", "", "loose", "a")
	tree.Put("py", "zeta", "defn", "b")
	tree.Put("py", "alpha", "defn", "c")
	tree.Put("py", "zeta", "cls", "d")

	index := tree.CategorizedIndex("py")
	assert.Equal(t, map[string]string{"defn": "alpha", "cls": "zeta"}, index)

	tree.Put("py", "beta", "late", "e")
	assert.NotContains(t, index, "late", "index is a snapshot")
}

func TestTree_KeysLenClone(t *testing.T) {
	tree := NewTree()
	tree.Put("py", "a", "x", "1")
	tree.Put("py", "", "y", "2")
	tree.Put("r", "b", "z", "3")

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, map[Key]struct{}{
		{Section: "a", Name: "x"}: {},
		{Section: "", Name: "y"}:  {},
	}, tree.Keys("py"))

	clone := tree.Clone()
	clone.Put("py", "a", "x", "changed")
	body, _ := tree.Get("py", "a", "x")
	assert.Equal(t, "1", body, "Clone must be deep")
}

func TestTree_Prune(t *testing.T) {
	tree := NewTree()
	tree.EnsurePath("py", "empty")
	tree.Put("py", "full", "x", "1")
	tree.EnsureLanguage("tex.snippets")

	tree.Prune()

	assert.Equal(t, []string{"full"}, tree.Sections("py"))
	assert.Contains(t, tree, "tex.snippets")
}

func TestNormalizeBody(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"already normal":          {in: "a\n\tb", want: "a\n\tb"},
		"trailing newlines":       {in: "a\nb\n\n\n", want: "a\nb"},
		"leading blank lines":     {in: "\n  \n\tfoo\nbar", want: "\tfoo\nbar"},
		"interior blank kept":     {in: "for {\n\n}", want: "for {\n\n}"},
		"crlf":                    {in: "a\r\nb\r\n", want: "a\nb"},
		"only whitespace":         {in: " \n\t\n", want: ""},
		"empty":                   {in: "", want: ""},
		"first line indent kept":  {in: "    pass", want: "    pass"},
		"trailing spaces":         {in: "x  \t", want: "x"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBody(tt.in))
		})
	}
}
