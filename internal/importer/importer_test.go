package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/recon/internal/config"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func TestChaseParser_Parse(t *testing.T) {
	data, err := os.ReadFile("testdata/chase_checking.csv")
	require.NoError(t, err)

	p := &ChaseParser{}
	lines, err := p.Parse(strings.NewReader(string(data)), 4)
	require.NoError(t, err)
	assert.Len(t, lines, 6)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", lines[0].Description)
	assert.Equal(t, "-4.00", lines[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", lines[0].Type)
	assert.Equal(t, 2025, lines[0].Date.Year())
	assert.Equal(t, 3, lines[0].Date.Day())
	assert.True(t, lines[0].IsOutbound())

	assert.Equal(t, "ACME CONSULTING INVOICE 1042", lines[3].Description)
	assert.False(t, lines[3].IsOutbound())
	assert.Equal(t, "3500.00", lines[3].Amount.StringFixed(2))

	for _, l := range lines {
		assert.Equal(t, 4, l.JournalID)
	}
}

func TestChaseParser_Reference(t *testing.T) {
	data, err := os.ReadFile("testdata/chase_checking.csv")
	require.NoError(t, err)

	lines, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)), 1)
	require.NoError(t, err)
	assert.Equal(t, "chase_20250103_GITHUBPROS", lines[0].Reference)
}

func TestChaseParser_EmptyFile(t *testing.T) {
	lines, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader), 1)
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestChaseParser_BadRows(t *testing.T) {
	tests := []struct {
		row  string
		want string
	}{
		{"DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "parsing date"},
		{"DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n", "parsing amount"},
	}
	for _, tt := range tests {
		_, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader+tt.row), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestGenericParser_Parse(t *testing.T) {
	csv := "Date,Description,Amount,Reference\n1/6/2025,Vendor run,-1250.50,BSL/0001\n01/15/2025,Customer deposit,980,\n"

	lines, err := (&GenericParser{}).Parse(strings.NewReader(csv), 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "BSL/0001", lines[0].Reference)
	assert.True(t, lines[0].IsOutbound())
	assert.Equal(t, 2, lines[0].JournalID)
	assert.Equal(t, "line_20250115_2", lines[1].Reference)
	assert.Equal(t, "980.00", lines[1].Amount.StringFixed(2))
	assert.Empty(t, lines[1].Type)
}

func TestGenericParser_MissingColumn(t *testing.T) {
	_, err := (&GenericParser{}).Parse(strings.NewReader("date,amount\n1/1/2025,5\n"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "description" column`)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("chase"))

	r.Register(&ChaseParser{})
	assert.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })

	d := DefaultRegistry()
	assert.NotNil(t, d.Get("chase"))
	assert.NotNil(t, d.Get("generic"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(importDir, "processed"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "b.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "a.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	data, err := os.ReadFile("testdata/chase_checking.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "chase-jan.csv"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "amex-jan.csv"), data, 0o644))

	cfg := config.Default("Acme", "USD")
	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	reg := DefaultRegistry()

	_, err = reg.ParseFile(cfg, files[0])
	assert.True(t, errors.Is(err, ErrNoJournal))

	st, err := reg.ParseFile(cfg, files[1])
	require.NoError(t, err)
	assert.Equal(t, 1, st.Journal.ID)
	assert.Len(t, st.Lines, 6)
	assert.Equal(t, "chase-jan.csv", st.File.Name)
}

func TestParseFile_RepeatedReferences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chase-feb.csv")
	csv := `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
DEBIT,02/03/2025,"UBER TRIP HELP.UBER.COM 1",-12.00,DEBIT_CARD,100.00,
DEBIT,02/03/2025,"UBER TRIP HELP.UBER.COM 2",-18.00,DEBIT_CARD,82.00,
DEBIT,02/04/2025,"UBER TRIP HELP.UBER.COM 3",-9.00,DEBIT_CARD,73.00,
DEBIT,02/03/2025,"UBER TRIP HELP.UBER.COM 4",-7.00,DEBIT_CARD,66.00,
`
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	cfg := config.Default("Acme", "USD")
	st, err := DefaultRegistry().ParseFile(cfg, FileInfo{Name: "chase-feb.csv", Path: path})
	require.NoError(t, err)

	var refs []string
	for _, l := range st.Lines {
		refs = append(refs, l.Reference)
	}
	assert.Equal(t, []string{
		"chase_20250203_UBERTRIPHE",
		"chase_20250203_UBERTRIPHE_2",
		"chase_20250204_UBERTRIPHE",
		"chase_20250203_UBERTRIPHE_3",
	}, refs)
}

func TestParseFile_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg := &config.Config{Journals: []config.Journal{{ID: 9, Name: "Odd", Format: "ofx", FilePrefix: "x"}}}
	_, err := DefaultRegistry().ParseFile(cfg, FileInfo{Name: "x.csv", Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "ofx"`)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}
