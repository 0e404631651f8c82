package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.AliasMap
		wantErr bool
	}{
		{
			name:  "list values",
			input: `{"AIR-DNA-E": ["AIR-DNA-E-T"], "DNA-P-T2-E-5Y": ["DSTACK-T2-E", "DSTACK-T2-A"]}`,
			want: model.AliasMap{
				"AIR-DNA-E":     {"AIR-DNA-E-T"},
				"DNA-P-T2-E-5Y": {"DSTACK-T2-E", "DSTACK-T2-A"},
			},
		},
		{
			name:  "string value promoted to singleton list",
			input: `{"AIR-DNA-E": "AIR-DNA-E-T"}`,
			want:  model.AliasMap{"AIR-DNA-E": {"AIR-DNA-E-T"}},
		},
		{
			name:  "malformed entry dropped, rest kept",
			input: `{"AIR-DNA-E": 42, "DNA-P-T2-E-5Y": ["DSTACK-T2-E"]}`,
			want:  model.AliasMap{"DNA-P-T2-E-5Y": {"DSTACK-T2-E"}},
		},
		{
			name:  "keys and values trimmed",
			input: `{"  AIR-DNA-E  ": ["  AIR-DNA-E-T "]}`,
			want:  model.AliasMap{"AIR-DNA-E": {"AIR-DNA-E-T"}},
		},
		{
			name:  "entry with only empty skus dropped",
			input: `{"AIR-DNA-E": ["", "   "]}`,
			want:  model.AliasMap{},
		},
		{
			name:    "top level must be an object",
			input:   `["AIR-DNA-E"]`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			input:   `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing path yields empty map", func(t *testing.T) {
		aliases, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Empty(t, aliases)
	})

	t.Run("empty path yields empty map", func(t *testing.T) {
		aliases, err := Load("")
		require.NoError(t, err)
		assert.Empty(t, aliases)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sku_map.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"AIR-DNA-E": ["AIR-DNA-E-T"]}`), 0o600))

		aliases, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, model.AliasMap{"AIR-DNA-E": {"AIR-DNA-E-T"}}, aliases)
	})
}
