package offers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(v string) string {
	return strings.TrimSuffix(strings.Repeat(v+",", Hours), ",")
}

func TestStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		state     ParseState
		line      string
		wantAgent string
		wantOffer bool
		wantErr   error
	}{
		{name: "agente_header", line: "  AGENTE: EMGESA S.A. ", wantAgent: "EMGESA S.A."},
		{name: "agente_header_extra_fields", line: "AGENTE: EMGESA: COD 123", wantAgent: "EMGESA"},
		{name: "agent_header", state: ParseState{Agent: "OLD"}, line: "AGENT:ISAGEN", wantAgent: "ISAGEN"},
		{name: "blank_line", state: ParseState{Agent: "A"}, line: "   ", wantAgent: "A"},
		{name: "before_header_ignored", line: "GUAVIO, D, " + hours("1")},
		{name: "non_d_skipped", state: ParseState{Agent: "A"}, line: "GUAVIO, P, " + hours("1"), wantAgent: "A"},
		{name: "d_accepted", state: ParseState{Agent: "A"}, line: "GUAVIO , D , " + hours(" 2.5"), wantAgent: "A", wantOffer: true},
		{name: "d_non_numeric", state: ParseState{Agent: "A"}, line: "GUAVIO, D, x," + hours("1")[2:], wantAgent: "A", wantErr: ErrMalformed},
		{name: "d_too_few", state: ParseState{Agent: "A"}, line: "GUAVIO, D, 1, 2", wantAgent: "A", wantErr: ErrMalformed},
		{name: "d_too_many", state: ParseState{Agent: "A"}, line: "GUAVIO, D, " + hours("1") + ",1", wantAgent: "A", wantErr: ErrMalformed},
		{name: "no_type", state: ParseState{Agent: "A"}, line: "GUAVIO", wantAgent: "A", wantErr: ErrMalformed},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			next, o, err := Step(tc.state, tc.line)
			assert.Equal(t, tc.state.Line+1, next.Line)
			assert.Equal(t, tc.wantAgent, next.Agent)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, o)
				return
			}
			require.NoError(t, err)
			if !tc.wantOffer {
				assert.Nil(t, o)
				return
			}
			require.NotNil(t, o)
			assert.Equal(t, "GUAVIO", o.Name)
			assert.Equal(t, "D", o.Type)
			assert.Equal(t, tc.wantAgent, o.Agent)
			for _, v := range o.Values {
				assert.Equal(t, 2.5, v)
			}
		})
	}
}

func TestParse_AttributesMostRecentAgentAndContinuesAfterDrop(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"OFEI 1204",
		"AGENTE: EMGESA",
		"GUAVIO, D, " + hours("1"),
		"GUAVIO, P, " + hours("9"),
		"PAGUA, D, bad," + hours("1")[2:],
		"BETANIA, D, " + hours("2"),
		"",
		"AGENTE: ISAGEN",
		"SOGAMOSO, D, " + hours("3"),
	}, "\n")

	type drop struct {
		line int
		err  error
	}
	var drops []drop
	got, state, err := Parse(strings.NewReader(in), ParseState{}, func(line int, _ string, err error) {
		drops = append(drops, drop{line, err})
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"EMGESA", "EMGESA", "ISAGEN"}, []string{got[0].Agent, got[1].Agent, got[2].Agent})
	assert.Equal(t, []string{"GUAVIO", "BETANIA", "SOGAMOSO"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, 3.0, got[2].Values[23])

	require.Len(t, drops, 1)
	assert.Equal(t, 5, drops[0].line)
	assert.True(t, errors.Is(drops[0].err, ErrMalformed))

	assert.Equal(t, ParseState{Agent: "ISAGEN", Line: 9}, state)
}

func TestParse_Restartable(t *testing.T) {
	t.Parallel()

	first := "AGENT: EMGESA\nGUAVIO, D, " + hours("1") + "\n"
	second := "PAGUA, D, " + hours("4") + "\n"

	a, state, err := Parse(strings.NewReader(first), ParseState{}, nil)
	require.NoError(t, err)
	b, state, err := Parse(strings.NewReader(second), state, nil)
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "EMGESA", b[0].Agent)
	assert.Equal(t, 3, state.Line)
}

func TestColumnsAndRow(t *testing.T) {
	t.Parallel()

	cols := Columns()
	require.Len(t, cols, 27)
	assert.Equal(t, []string{"agent", "name", "type", "HORA_1"}, cols[:4])
	assert.Equal(t, "HORA_24", cols[26])

	o := Offer{Agent: "A", Name: "N", Type: "D"}
	o.Values[0], o.Values[23] = 1, 24
	row := o.Row()
	require.Len(t, row, len(cols))
	assert.Equal(t, "A", row[0])
	assert.Equal(t, 1.0, row[3])
	assert.Equal(t, 24.0, row[26])

	def := TableDef("ofertas")
	assert.Equal(t, append([]string{"id"}, cols...), def.ColumnNames(false))
	assert.Equal(t, cols, def.ColumnNames(true))
}
