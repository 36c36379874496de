package schedule

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iNicoNavarro/data-problems/internal/config"
)

var masterHeader = []string{
	"Nombre Visible Agente",
	"Central (dDEC, dSEGDES, dPRU)",
	"Tipo de Central (Hidro, Termo, Filo, Menor)",
	"Precio de Arranque (PAR)",
}

func masterRows() [][]string {
	return [][]string{
		{"EMGESA", "GUAVIO", "H", "100"},
		{"EMGESA S.A. E.S.P.", "PAGUA", "T", "200"},
		{"EMGESA", "DARIO VALENCIA", "F"},
		{"ISAGEN", "SOGAMOSO", "H", "50"},
		{"", "BETANIA", "H", "1"},
		{"EMGESA", "ZERO", "H", "5"},
		{"EMGESA", "NOSCHED", "T", "5"},
		{"", "", "", ""},
	}
}

func TestNewMaster(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, masterRows())
	require.NoError(t, err)
	assert.Equal(t, []string{ColAgent, ColCentral, ColType, "precio_arranque"}, m.Columns)
	require.Len(t, m.Records, 7, "blank row skipped")
	assert.Equal(t, DefaultAgent, m.Records[4][ColAgent])
	assert.Nil(t, m.Records[2]["precio_arranque"], "short row padded with nil")
}

func TestNewMasterMissingColumn(t *testing.T) {
	t.Parallel()

	_, err := NewMaster([]string{"Nombre Visible Agente", "Central (dDEC, dSEGDES, dPRU)"}, nil)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), ColType)
}

func TestNewMasterFillsBlankType(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, [][]string{{"EMGESA", "X", " "}})
	require.NoError(t, err)
	assert.Equal(t, "", m.Records[0][ColType])
}

func TestFilterMaster(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, masterRows())
	require.NoError(t, err)

	df, err := FilterMaster(m.Frame(), "EMGESA", []string{"H", "T"})
	require.NoError(t, err)

	agents := df.Col(ColAgent).Records()
	types := df.Col(ColType).Records()
	require.Len(t, agents, 4)
	for i := range agents {
		assert.Contains(t, agents[i], "EMGESA")
		assert.Contains(t, []string{"H", "T"}, types[i])
	}
	assert.Equal(t, []string{"GUAVIO", "PAGUA", "ZERO", "NOSCHED"}, df.Col(ColCentral).Records())
}

func TestFilterMasterNoMatch(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, masterRows())
	require.NoError(t, err)
	df, err := FilterMaster(m.Frame(), "NOBODY", []string{"H"})
	require.NoError(t, err)
	assert.Zero(t, df.Nrow())
}

func ddecLine(central string, v string) string {
	return central + "," + strings.TrimSuffix(strings.Repeat(v+",", Hours), ",")
}

func writeDDEC(t *testing.T, dir string) string {
	t.Helper()
	lines := []string{
		ddecLine("GUAVIO", "10"),
		ddecLine("PAGUA", "1.5"),
		ddecLine("ZERO", "0"),
		ddecLine("SOGAMOSO", "7"),
		"ROTA,1,2,3",
		ddecLine("MALO", "x"),
		ddecLine("BOGOT\xc1", "1"),
	}
	path := filepath.Join(dir, "dDEC1204.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\r\n")+"\r\n"), 0o644))
	return path
}

func TestReadSchedule(t *testing.T) {
	t.Parallel()

	df, skipped, err := ReadSchedule(context.Background(), writeDDEC(t, t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, ScheduleColumns(), df.Names())
	assert.Equal(t, []string{"GUAVIO", "PAGUA", "ZERO", "SOGAMOSO", "BOGOTÁ"}, df.Col(ColCentral).Records())
}

func TestJoinAndHorizontalSum(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, masterRows())
	require.NoError(t, err)
	filtered, err := FilterMaster(m.Frame(), "EMGESA", []string{"H", "T"})
	require.NoError(t, err)
	sched, _, err := ReadSchedule(context.Background(), writeDDEC(t, t.TempDir()))
	require.NoError(t, err)

	joined, err := Join(filtered, sched)
	require.NoError(t, err)
	assert.Equal(t, 3, joined.Nrow(), "NOSCHED and SOGAMOSO have no partner")

	out, err := AddHorizontalSum(joined)
	require.NoError(t, err)
	assert.Equal(t, []string{"GUAVIO", "PAGUA"}, out.Col(ColCentral).Records(), "all-zero row dropped")
	assert.Equal(t, []string{"240", "36"}, out.Col(ColSum).Records())
	assert.Equal(t, ColSum, out.Names()[len(out.Names())-1])
}

func TestHorizontalSumIgnoresOtherHoraColumns(t *testing.T) {
	t.Parallel()

	header := append(append([]string{}, masterHeader...), "Hora Inicio")
	m, err := NewMaster(header, [][]string{{"EMGESA", "GUAVIO", "H", "100", "06:00"}})
	require.NoError(t, err)
	require.Contains(t, m.Columns, "hora_inicio")
	sched, _, err := ReadSchedule(context.Background(), writeDDEC(t, t.TempDir()))
	require.NoError(t, err)

	joined, err := Join(m.Frame(), sched)
	require.NoError(t, err)
	require.Equal(t, 1, joined.Nrow())

	out, err := AddHorizontalSum(joined)
	require.NoError(t, err)
	assert.Equal(t, []string{"GUAVIO"}, out.Col(ColCentral).Records())
	assert.Equal(t, []string{"240"}, out.Col(ColSum).Records())
	assert.Equal(t, []string{"06:00"}, out.Col("hora_inicio").Records())
}

func TestHorizontalSumMissingHourColumn(t *testing.T) {
	t.Parallel()

	sched, _, err := ReadSchedule(context.Background(), writeDDEC(t, t.TempDir()))
	require.NoError(t, err)

	_, err = AddHorizontalSum(sched.Drop("hora_24"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestHorizontalSumAllZero(t *testing.T) {
	t.Parallel()

	m, err := NewMaster(masterHeader, [][]string{{"EMGESA", "ZERO", "H"}})
	require.NoError(t, err)
	sched, _, err := ReadSchedule(context.Background(), writeDDEC(t, t.TempDir()))
	require.NoError(t, err)

	joined, err := Join(m.Frame(), sched)
	require.NoError(t, err)
	out, err := AddHorizontalSum(joined)
	require.NoError(t, err)
	assert.Zero(t, out.Nrow())
	assert.Contains(t, out.Names(), ColSum)
}

func writeMasterXLSX(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(masterHeader))
	for i, h := range masterHeader {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, r := range masterRows() {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, "Datos Maestros VF.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.ScheduleConfig{
		MasterXLSX:  writeMasterXLSX(t, dir),
		DDECCSV:     writeDDEC(t, dir),
		Output:      filepath.Join(dir, "processed", "filtered_results.csv"),
		XLSXReport:  filepath.Join(dir, "processed", "filtered_results.xlsx"),
		PDFReport:   filepath.Join(dir, "processed", "filtered_results.pdf"),
		AgentFilter: "EMGESA",
		PlantTypes:  []string{"H", "T"},
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Result{MasterRows: 7, FilteredRows: 4, Scheduled: 5, Skipped: 2, Joined: 3, Output: 2}, res)

	b, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "central,nombre_visible_agente,tipo_de_central_hidro_termo_filo_menor,precio_arranque,hora_1,"))
	assert.True(t, strings.HasSuffix(lines[0], ",hora_24,suma_horizontal"))
	assert.True(t, strings.HasPrefix(lines[1], "GUAVIO,EMGESA,H,100,10,"))

	x, err := excelize.OpenFile(cfg.XLSXReport)
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("resumen")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"GUAVIO", "H", "EMGESA", "240"}, rows[1])

	pdf, err := os.ReadFile(cfg.PDFReport)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRunMissingMaster(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Run(context.Background(), config.ScheduleConfig{
		MasterXLSX: filepath.Join(dir, "missing.xlsx"),
		DDECCSV:    filepath.Join(dir, "missing.txt"),
		Output:     filepath.Join(dir, "out.csv"),
	})
	require.Error(t, err)
}
