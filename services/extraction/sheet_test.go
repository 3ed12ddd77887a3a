package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtractWorkbookSectionMarkers(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Laboratory schedule 2025/1"},
		{"Data", "Horário", "Assunto", "Curso"},
		{"Anatomy Lab 1"},
		{"01/04/2025", "13:00", "Skeletal System", "Medicine"},
		{"Microscopy Lab"},
		{"08/04/2025", "09:30", "Tissue slides", "Medicine"},
		{"TBD", "", "Extra session", ""},
	})

	lines, err := Extract("schedule.xlsx", data)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "Sheet: Sheet1", first.Origin)
	assert.Equal(t, "01/04/2025", first.Row[ColDate])
	assert.Equal(t, "13:00", first.Row[ColTime])
	assert.Equal(t, "Skeletal System", first.Row[ColTopic])
	assert.Equal(t, "Medicine", first.Row[ColCourse])
	assert.Equal(t, "Anatomy Lab 1", first.Row[ColLab])

	// The second section marker replaced the running lab.
	second := lines[1]
	assert.Equal(t, "Microscopy Lab", second.Row[ColLab])
	assert.Equal(t, "Tissue slides", second.Row[ColTopic])
}

func TestExtractWorkbookNoHeaderYieldsNothing(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Inventory", "Count"},
		{"Gloves", "120"},
	})

	lines, err := Extract("inventory.xlsx", data)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestExtractCSV(t *testing.T) {
	csvData := "\xef\xbb\xbf" + // UTF-8 BOM as exported by spreadsheet tools
		"Data,Horario,Atividade,Curso\n" +
		"15/04,13:00,Microbial cultures,Nursing\n" +
		",,Reading week,\n" +
		"22/04,07:30,Gram staining,Nursing\n"

	lines, err := Extract("schedule.csv", []byte(csvData))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "CSV", lines[0].Origin)
	assert.Equal(t, "15/04", lines[0].Row[ColDate])
	assert.Equal(t, "Microbial cultures", lines[0].Row[ColTopic])
	assert.Equal(t, "Nursing", lines[0].Row[ColCourse])
	// CSV has no section markers, so no lab column is carried.
	assert.Empty(t, lines[0].Row[ColLab])

	assert.Equal(t, "22/04", lines[1].Row[ColDate])
}
