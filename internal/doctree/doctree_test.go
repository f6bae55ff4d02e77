package doctree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure_JSONShape(t *testing.T) {
	s := Structure{
		Title: "Annual Report 2024",
		Outline: []Heading{
			{Level: 1, Text: "Introduction", Page: 1},
			{Level: 2, Text: "Methods", Page: 3},
		},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"title":"Annual Report 2024","outline":[{"level":"H1","text":"Introduction","page":1},{"level":"H2","text":"Methods","page":3}]}`,
		string(data))

	var back Structure
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestStructure_MarshalIndentEmptyOutline(t *testing.T) {
	data, err := Structure{Title: "Empty & Plain"}.MarshalIndent()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Empty & Plain","outline":[]}`, string(data))
	assert.Contains(t, string(data), "Empty & Plain", "HTML characters must not be escaped")
}

func TestParseLevel(t *testing.T) {
	n, err := ParseLevel("H3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ParseLevel("h12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "H", "X1", "H0", "H-1", "Hx"} {
		_, err := ParseLevel(bad)
		assert.Error(t, err, bad)
	}
}
