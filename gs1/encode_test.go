package gs1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPairs(elements []RawElement) []RawElement {
	out := make([]RawElement, len(elements))
	for i, e := range elements {
		out[i] = RawElement{AI: e.AI, Value: e.Value}
	}
	return out
}

func TestEncodeGSRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		elements []RawElement
	}{
		{
			name: "fixed length only",
			elements: []RawElement{
				{AI: "01", Value: "00196527094841"},
				{AI: "17", Value: "290823"},
			},
		},
		{
			name: "mixed fixed and variable",
			elements: []RawElement{
				{AI: "01", Value: "00196527094841"},
				{AI: "10", Value: "UDD242363"},
				{AI: "21", Value: "00298"},
			},
		},
		{
			name: "variable length in the middle",
			elements: []RawElement{
				{AI: "10", Value: "LOT9"},
				{AI: "17", Value: "290823"},
				{AI: "30", Value: "12"},
			},
		},
		{
			name: "three and four digit AIs",
			elements: []RawElement{
				{AI: "240", Value: "PART-A77"},
				{AI: "8005", Value: "123456"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeGS(tt.elements)
			result := DecodeGS(encoded)
			require.True(t, result.OK, "re-decode failed: %v", result.Errors)
			assert.Equal(t, tt.elements, rawPairs(result.Elements))
		})
	}
}

func TestEncodeParenthesizedRoundTrip(t *testing.T) {
	input := "(01)06923604463221(17)251231(10)ABC123"
	result := DecodeParenthesized(input)
	require.True(t, result.OK)
	require.Len(t, result.Elements, 3)

	// Full reconstruction equals the original input when parsing succeeds.
	assert.Equal(t, input, EncodeParenthesized(rawPairs(result.Elements)))
}

func TestEncodeParenthesizedRawSlices(t *testing.T) {
	input := "(01)06923604463221(17)251231"
	result := DecodeParenthesized(input)
	require.True(t, result.OK)

	var rebuilt string
	for _, e := range result.Elements {
		rebuilt += e.Raw
	}
	assert.Equal(t, input, rebuilt, "raw slices should tile the input exactly")
}
