package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantFound  bool
		wantTitle  string
		wantFormat string
	}{
		{
			name:       "GTIN",
			code:       "01",
			wantFound:  true,
			wantTitle:  "GTIN",
			wantFormat: "N2+N14",
		},
		{
			name:       "SSCC",
			code:       "00",
			wantFound:  true,
			wantTitle:  "SSCC",
			wantFormat: "N2+N18",
		},
		{
			name:       "batch",
			code:       "10",
			wantFound:  true,
			wantTitle:  "BATCH/LOT",
			wantFormat: "N2+X..20",
		},
		{
			name:      "company internal AI is not registered",
			code:      "99",
			wantFound: false,
		},
		{
			name:      "unknown code",
			code:      "47",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Lookup(tt.code)
			if !tt.wantFound {
				assert.Nil(t, def)
				return
			}
			require.NotNil(t, def)
			assert.Equal(t, tt.code, def.Code)
			assert.Equal(t, tt.wantTitle, def.Title)
			assert.Equal(t, tt.wantFormat, def.Format)
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	def := Lookup("01")
	require.NotNil(t, def)

	def.Title = "MUTATED"

	again := Lookup("01")
	require.NotNil(t, again)
	assert.Equal(t, "GTIN", again.Title, "registry entries must be immutable to callers")
}

func TestPrimaryKeyFlags(t *testing.T) {
	for _, code := range []string{"00", "01", "253", "402", "8003", "8006", "8017"} {
		def := Lookup(code)
		require.NotNil(t, def, "AI %s should be registered", code)
		assert.True(t, def.PrimaryKey, "AI %s should be a primary key", code)
	}

	for _, code := range []string{"10", "17", "21", "37"} {
		def := Lookup(code)
		require.NotNil(t, def)
		assert.False(t, def.PrimaryKey, "AI %s should not be a primary key", code)
	}
}

func TestDependencyLists(t *testing.T) {
	content := Lookup("02")
	require.NotNil(t, content)
	assert.Equal(t, []string{"37"}, content.Requires)
	assert.Equal(t, []string{"01"}, content.Excludes)

	serial := Lookup("21")
	require.NotNil(t, serial)
	assert.ElementsMatch(t, []string{"01", "8006"}, serial.Requires)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCodes []string
		wantEmpty bool
	}{
		{
			name:      "code prefix",
			query:     "80",
			wantCodes: []string{"8001", "8003", "8004"},
		},
		{
			name:      "title substring",
			query:     "serial shipping",
			wantCodes: []string{"00"},
		},
		{
			name:      "case insensitive",
			query:     "BATCH",
			wantCodes: []string{"10"},
		},
		{
			name:      "empty query",
			query:     "  ",
			wantEmpty: true,
		},
		{
			name:      "no match",
			query:     "zzzz",
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Search(tt.query)
			if tt.wantEmpty {
				assert.Empty(t, results)
				return
			}
			codes := make([]string, 0, len(results))
			for _, def := range results {
				codes = append(codes, def.Code)
			}
			for _, want := range tt.wantCodes {
				assert.Contains(t, codes, want)
			}
		})
	}
}

func TestSearchResultsSorted(t *testing.T) {
	results := Search("3")
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Code, results[i].Code)
	}
}

func TestListSorted(t *testing.T) {
	defs := List()
	require.NotEmpty(t, defs)
	assert.Equal(t, Size(), len(defs))
	for i := 1; i < len(defs); i++ {
		assert.LessOrEqual(t, defs[i-1].Code, defs[i].Code)
	}
}

func TestRegisterOverride(t *testing.T) {
	t.Cleanup(Reset)

	Register("99",
		WithTitle("INTERNAL"),
		WithFormat("N2+X..30"),
		WithPattern(`^[!-~]{1,30}$`))

	def := Lookup("99")
	require.NotNil(t, def)
	assert.Equal(t, "INTERNAL", def.Title)

	Reset()
	assert.Nil(t, Lookup("99"), "Reset should restore the built-in table")
}
