package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasMap_Resolve(t *testing.T) {
	aliases := AliasMap{
		"AIR-DNA-E":     {"AIR-DNA-E-T"},
		"DNA-P-T2-E-5Y": {"DSTACK-T2-E", "DSTACK-T2-A"},
	}

	tests := []struct {
		name string
		pid  string
		want []string
	}{
		{
			name: "unmapped pid resolves to itself",
			pid:  "C9300-DNA-E",
			want: []string{"C9300-DNA-E"},
		},
		{
			name: "mapped pid resolves to mapped set only",
			pid:  "AIR-DNA-E",
			want: []string{"AIR-DNA-E-T"},
		},
		{
			name: "mapped set preserves order",
			pid:  "DNA-P-T2-E-5Y",
			want: []string{"DSTACK-T2-E", "DSTACK-T2-A"},
		},
		{
			name: "empty pid still resolves to itself",
			pid:  "",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aliases.Resolve(tt.pid))
		})
	}
}

func TestAliasMap_ResolveNilMap(t *testing.T) {
	var aliases AliasMap
	assert.Equal(t, []string{"AIR-DNA-E"}, aliases.Resolve("AIR-DNA-E"))
}

func TestOutcome_Color(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    OutcomeColor
	}{
		{OutcomeAccepted, ColorGreen},
		{OutcomeNoOrderMatch, ColorRed},
		{OutcomeNoSKUMatch, ColorRed},
		{OutcomeNoQuantityMatch, ColorBlue},
		{OutcomeDateInvalid, ColorYellow},
		{OutcomeDateOutOfRange, ColorYellow},
		{OutcomeExpiredAlready, ColorPurple},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Color())
		})
	}
}
