package corpus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestFromXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Code", "LED Color"},
		{"R", "Red"},
	})

	c, err := FromXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Tables) != 1 || len(c.Tables[0]) != 2 {
		t.Fatalf("tables=%v", c.Tables)
	}
	if c.Tables[0][1].CellAt(1) != "Red" {
		t.Fatalf("cell=%q", c.Tables[0][1].CellAt(1))
	}
	if !strings.Contains(c.Text, "LED Color") {
		t.Fatalf("text=%q", c.Text)
	}
}

func TestFromHTML(t *testing.T) {
	html := `<html><body>
<p>APW199 panel mount indicator</p>
<table>
<tr><th>Code</th><th>Voltage</th></tr>
<tr><td>S1</td><td>24VDC</td></tr>
</table>
</body></html>`

	c, err := FromHTML([]byte(html))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Tables) != 1 || len(c.Tables[0]) != 2 {
		t.Fatalf("tables=%v", c.Tables)
	}
	if c.Tables[0][1].CellAt(0) != "S1" {
		t.Fatalf("cell=%q", c.Tables[0][1].CellAt(0))
	}
	if !strings.Contains(c.Text, "panel mount indicator") {
		t.Fatalf("text=%q", c.Text)
	}
	if len(c.Pages) != 1 {
		t.Fatalf("pages=%d", len(c.Pages))
	}
}

func TestFromBytesUnsupported(t *testing.T) {
	if _, err := FromBytes([]byte("x"), "sheet.docx"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRowHelpers(t *testing.T) {
	row := Row{" S1 ", "24VDC"}
	if row.CellAt(0) != "S1" {
		t.Fatalf("cell=%q", row.CellAt(0))
	}
	if row.CellAt(-1) != "" || row.CellAt(5) != "" {
		t.Fatal("out of range must be empty")
	}
	if row.JoinedLower() != " s1  24vdc" {
		t.Fatalf("joined=%q", row.JoinedLower())
	}
}
