package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetParser_CSV(t *testing.T) {
	parser := NewSheetParser()

	t.Run("parses rows with all recognized columns", func(t *testing.T) {
		sheet := strings.Join([]string{
			"Command,Description,Example,Version,Tag",
			"show version,Display version,show version | include uptime,15.2,Diagnostics",
			"show ip route,,,,Routing/IPv4",
		}, "\n")

		rows, parseErrs, err := parser.Parse("commands.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Empty(t, parseErrs)
		require.Len(t, rows, 2)

		require.Equal(t, 2, rows[0].LineNo)
		require.Equal(t, "show version", rows[0].Command)
		require.Equal(t, "Display version", *rows[0].Description)
		require.Equal(t, "show version | include uptime", *rows[0].Example)
		require.Equal(t, "15.2", *rows[0].Version)
		require.Equal(t, []string{"Diagnostics"}, rows[0].TagPath)

		require.Nil(t, rows[1].Description)
		require.Nil(t, rows[1].Example)
		require.Nil(t, rows[1].Version)
		require.Equal(t, []string{"Routing", "IPv4"}, rows[1].TagPath)
	})

	t.Run("header matching is case-insensitive and unknown columns are ignored", func(t *testing.T) {
		sheet := "COMMAND,Notes,TAG\nshow clock,ignored,Time"
		rows, parseErrs, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Empty(t, parseErrs)
		require.Len(t, rows, 1)
		require.Equal(t, "show clock", rows[0].Command)
		require.Nil(t, rows[0].Description)
		require.Equal(t, []string{"Time"}, rows[0].TagPath)
	})

	t.Run("tag path segments are trimmed, whitespace-collapsed and elided when empty", func(t *testing.T) {
		sheet := "command,tag\nshow env, Hardware //  Fans  / "
		rows, _, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Equal(t, []string{"Hardware", "Fans"}, rows[0].TagPath)
	})

	t.Run("empty command cell becomes a parse error without aborting the file", func(t *testing.T) {
		sheet := "command,description\n,missing command\nshow clock,ok"
		rows, parseErrs, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Len(t, parseErrs, 1)
		require.Equal(t, 2, parseErrs[0].LineNo)
		require.Equal(t, "empty command", parseErrs[0].Reason)
	})

	t.Run("quoted multi-line fields keep physical line numbers", func(t *testing.T) {
		sheet := strings.Join([]string{
			"command,description",
			"\"show version\",\"multi",
			"line desc\"",
			",missing command",
			"show clock,ok",
		}, "\n")

		rows, parseErrs, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Len(t, parseErrs, 1)

		// The quoted row spans lines 2-3; the rows after it report the lines
		// they actually sit on, matching csv.ParseError numbering.
		require.Equal(t, 2, rows[0].LineNo)
		require.Equal(t, "multi\nline desc", *rows[0].Description)
		require.Equal(t, 4, parseErrs[0].LineNo)
		require.Equal(t, 5, rows[1].LineNo)
	})

	t.Run("quote-unbalanced row is surfaced with its line number", func(t *testing.T) {
		sheet := "command,description\n\"show version,broken\nshow clock,ok"
		rows, parseErrs, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.NotEmpty(t, parseErrs)
		for _, r := range rows {
			require.NotEmpty(t, r.Command)
		}
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		sheet := "command\nshow clock\n\nshow version"
		rows, parseErrs, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.NoError(t, err)
		require.Empty(t, parseErrs)
		require.Len(t, rows, 2)
	})

	t.Run("missing command column fails the whole sheet", func(t *testing.T) {
		sheet := "name,description\nfoo,bar"
		_, _, err := parser.Parse("sheet.csv", strings.NewReader(sheet))
		require.ErrorIs(t, err, ErrMissingCommandColumn)
	})

	t.Run("empty input fails the whole sheet", func(t *testing.T) {
		_, _, err := parser.Parse("sheet.csv", strings.NewReader(""))
		require.ErrorIs(t, err, ErrEmptySheet)

		_, _, err = parser.Parse("sheet.csv", strings.NewReader("command,description\n"))
		require.ErrorIs(t, err, ErrEmptySheet)
	})
}

func TestSheetParser_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Command", "Description", "Tag"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"show version", "Display version", "Diagnostics"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"show ip route", "", "Routing/IPv4"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, parseErrs, err := NewSheetParser().Parse("commands.xlsx", buf)
	require.NoError(t, err)
	require.Empty(t, parseErrs)
	require.Len(t, rows, 2)
	require.Equal(t, "show version", rows[0].Command)
	require.Equal(t, "Display version", *rows[0].Description)
	require.Equal(t, []string{"Diagnostics"}, rows[0].TagPath)
	require.Nil(t, rows[1].Description)
	require.Equal(t, []string{"Routing", "IPv4"}, rows[1].TagPath)
}
