// Package corpus builds the page-text and table-grid view of a datasheet.
// The extraction pipeline is agnostic to how the corpus was produced; PDF,
// XLSX and HTML inputs all reduce to the same structure.
package corpus

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"specsheet/internal/util"
)

type Row []string

type Table []Row

// PageCorpus is the immutable input to one extraction pass: all pages'
// plain text (newline-joined), the per-page texts, and every table grid
// found in the document.
type PageCorpus struct {
	Text   string
	Pages  []string
	Tables []Table
}

func FromBytes(content []byte, filename string) (*PageCorpus, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FromPDF(content)
	case ".xlsx", ".xls":
		return FromXLSX(content)
	case ".html", ".htm":
		return FromHTML(content)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", filename)
	}
}

func FromPDF(content []byte) (*PageCorpus, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	c := &PageCorpus{}
	var all strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			c.Pages = append(c.Pages, "")
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		c.Pages = append(c.Pages, text)
		if text != "" {
			all.WriteString(text)
			all.WriteString("\n")
		}

		if table := pageTable(p); len(table) > 0 {
			c.Tables = append(c.Tables, table)
		}
	}

	c.Text = all.String()
	return c, nil
}

// pageTable reconstructs a cell grid from the page's positioned text rows.
// Glyph runs separated by a horizontal gap wider than the running font size
// are treated as distinct cells.
func pageTable(p pdf.Page) Table {
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil
	}

	table := make(Table, 0, len(rows))
	for _, row := range rows {
		cells := clusterCells(row.Content)
		if len(cells) > 1 {
			table = append(table, cells)
		}
	}
	if len(table) < 2 {
		return nil
	}
	return table
}

func clusterCells(content []pdf.Text) Row {
	var cells Row
	var cur strings.Builder
	var lastEnd float64
	var lastSize float64

	flush := func() {
		cell := util.NormalizeSpaces(cur.String())
		if cell != "" {
			cells = append(cells, cell)
		}
		cur.Reset()
	}

	for i, t := range content {
		if i > 0 {
			gap := t.X - lastEnd
			threshold := lastSize
			if threshold < 6 {
				threshold = 6
			}
			if gap > threshold {
				flush()
			}
		}
		cur.WriteString(t.S)
		lastEnd = t.X + t.W
		lastSize = t.FontSize
	}
	flush()
	return cells
}

func FromXLSX(content []byte) (*PageCorpus, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := &PageCorpus{}
	var all strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		table := make(Table, 0, len(rows))
		var page strings.Builder
		for _, row := range rows {
			cells := make(Row, 0, len(row))
			for _, cell := range row {
				cells = append(cells, util.NormalizeSpaces(cell))
			}
			if len(cells) == 0 {
				continue
			}
			table = append(table, cells)
			page.WriteString(strings.Join(cells, " "))
			page.WriteString("\n")
		}
		if len(table) > 0 {
			c.Tables = append(c.Tables, table)
		}
		c.Pages = append(c.Pages, page.String())
		all.WriteString(page.String())
	}

	c.Text = all.String()
	return c, nil
}

func FromHTML(content []byte) (*PageCorpus, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	c := &PageCorpus{}
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		var table Table
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells Row
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if len(cells) > 0 {
				table = append(table, cells)
			}
		})
		if len(table) > 0 {
			c.Tables = append(c.Tables, table)
		}
	})

	text := strings.TrimSpace(doc.Text())
	c.Pages = []string{text}
	c.Text = text
	return c, nil
}

// CellAt returns the trimmed cell value, empty when the index is out of
// range or the cell is blank.
func (r Row) CellAt(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// JoinedLower renders a row as one lowercased string for keyword scans.
func (r Row) JoinedLower() string {
	return strings.ToLower(strings.Join(r, " "))
}
