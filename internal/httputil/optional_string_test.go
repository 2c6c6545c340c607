package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalString(t *testing.T) {
	type body struct {
		Title OptionalString `json:"title"`
	}

	tests := []struct {
		name        string
		input       string
		wantPresent bool
		wantValue   *string
		wantErr     error
	}{
		{"absent", `{}`, false, nil, nil},
		{"null", `{"title":null}`, true, nil, ErrNullField},
		{"empty", `{"title":""}`, true, strPtr(""), nil},
		{"value", `{"title":"Notes"}`, true, strPtr("Notes"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.wantPresent, b.Title.Present)

			ptr, err := b.Title.Ptr()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, ptr)
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var b struct {
		Title OptionalString `json:"title"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"title":42}`), &b))
}

func strPtr(s string) *string { return &s }
