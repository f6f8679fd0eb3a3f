package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"specsheet/internal/config"
	"specsheet/internal/storage"
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

func TestSmokeDatasheetToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	blob := mkXLSX([][]any{
		{"APW199 LED Indicator Specifications"},
		{"Code", "LED Color"},
		{"R", "Red"},
		{"G", "Green"},
		{"Rated Voltage", "24VDC"},
		{"Panel cut-out", "Ø22mm"},
		{"Sealing", "IP65"},
		{"APW199-R24V-01"},
	})
	path := filepath.Join(tmp, "APW199_datasheet.xlsx")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg, zerolog.Nop())

	res, err := proc.ProcessFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Products == 0 {
		t.Fatal("no products")
	}

	stored, err := db.GetResult(res.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Fields["LED COLOR"] != "{R:Red|G:Green}" {
		t.Fatalf("led color=%q", stored.Fields["LED COLOR"])
	}
	if len(stored.ModelCodes) != 1 || stored.ModelCodes[0] != "APW199-R24V-01" {
		t.Fatalf("model codes=%v", stored.ModelCodes)
	}

	payload := []byte(`[
		{"MODEL_CODE": "APW199-R24V-01", "BEZEL_STYLE": "{Dome}"},
		{"MODEL_CODE": "apw199-r24v-01"}
	]`)
	products, _, err := proc.MergeCandidates("APW199_datasheet.xlsx", payload)
	if err != nil {
		t.Fatal(err)
	}
	if products != 1 {
		t.Fatalf("products=%d", products)
	}

	fieldsOut := filepath.Join(tmp, "fields.xlsx")
	productsOut := filepath.Join(tmp, "products.xlsx")
	if err := proc.ExportDocument("APW199_datasheet.xlsx", fieldsOut, productsOut); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fieldsOut); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(productsOut); err != nil {
		t.Fatal(err)
	}
}
