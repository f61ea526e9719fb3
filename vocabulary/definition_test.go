package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalFixedLength(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantLen  int
		wantOK   bool
	}{
		{"GTIN is fully fixed", "01", 14, true},
		{"SSCC is fully fixed", "00", 18, true},
		{"expiry date is fully fixed", "17", 6, true},
		{"ITIP is fixed across components", "8006", 18, true},
		{"batch is variable", "10", 0, false},
		{"GDTI has an optional tail", "253", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Lookup(tt.code)
			require.NotNil(t, def)
			n, ok := def.TotalFixedLength()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLen, n)
		})
	}
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "valid GTIN",
			code:   "01",
			value:  "00196527094841",
			wantOK: true,
		},
		{
			name:    "GTIN one short",
			code:    "01",
			value:   "0019652709484",
			wantOK:  false,
			wantMsg: "expected 14 characters, got 13",
		},
		{
			name:    "GTIN one long",
			code:    "01",
			value:   "001965270948411",
			wantOK:  false,
			wantMsg: "expected 14 characters, got 15",
		},
		{
			name:    "GTIN with letters",
			code:    "01",
			value:   "0019652709484A",
			wantOK:  false,
			wantMsg: "does not match format",
		},
		{
			name:   "valid expiry",
			code:   "17",
			value:  "290823",
			wantOK: true,
		},
		{
			name:   "batch at maximum length",
			code:   "10",
			value:  "ABCDEFGHIJ1234567890",
			wantOK: true,
		},
		{
			name:    "batch over maximum length",
			code:    "10",
			value:   "ABCDEFGHIJ12345678901",
			wantOK:  false,
			wantMsg: "does not match format",
		},
		{
			name:   "GDTI with serial tail",
			code:   "253",
			value:  "4012345000092ABC",
			wantOK: true,
		},
		{
			name:    "GDTI numeric part too short",
			code:    "253",
			value:   "40123450000",
			wantOK:  false,
			wantMsg: "does not match format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Lookup(tt.code)
			require.NotNil(t, def)
			ok, msg := def.Validate(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantMsg != "" {
				assert.Contains(t, msg, tt.wantMsg)
			}
		})
	}
}
