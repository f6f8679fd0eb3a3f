package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"specsheet/internal/config"
	"specsheet/internal/storage"
)

const sampleHTML = `<html><body>
<p>APW199 panel mount indicator, rated 24VDC, protection IP65</p>
<table>
<tr><th>Code</th><th>LED Color</th></tr>
<tr><td>R</td><td>Red</td></tr>
</table>
</body></html>`

func TestWatchCycle(t *testing.T) {
	tmp := t.TempDir()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.WatchDir = filepath.Join(tmp, "inbox")
	cfg.OutputDir = filepath.Join(tmp, "out")
	cfg.WatchAutoExport = true
	cfg.WatchBatch = 10
	cfg.BatchWorkers = 2

	if err := os.MkdirAll(cfg.WatchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.WatchDir, "APW199.html"), []byte(sampleHTML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.WatchDir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s := NewService(db, cfg, zerolog.Nop())
	if err := s.runCycle(); err != nil {
		t.Fatal(err)
	}

	row, err := db.MustDocumentByFilename("APW199.html")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "exported" {
		t.Fatalf("status=%q", row.Status)
	}
	if row.Series != "APW199" {
		t.Fatalf("series=%q", row.Series)
	}

	skipped, err := db.GetDocumentByFilename("notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if skipped != nil {
		t.Fatal("txt file should be ignored")
	}

	// second cycle is a no-op for already stored files
	if err := s.runCycle(); err != nil {
		t.Fatal(err)
	}
	row, err = db.MustDocumentByFilename("APW199.html")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "exported" {
		t.Fatalf("reprocessed: status=%q", row.Status)
	}
}

func TestPendingFilesSkipsStored(t *testing.T) {
	tmp := t.TempDir()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.WatchDir = tmp

	if err := os.WriteFile(filepath.Join(tmp, "CW4B.html"), []byte(sampleHTML), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s := NewService(db, cfg, zerolog.Nop())
	pending, err := s.pendingFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending=%v", pending)
	}

	if _, err := s.processor.ProcessFile(pending[0]); err != nil {
		t.Fatal(err)
	}
	pending, err = s.pendingFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending=%v", pending)
	}
}
