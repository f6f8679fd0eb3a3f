package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"specsheet/internal/config"
	"specsheet/internal/pipeline"
	"specsheet/internal/storage"
)

// Service polls a drop directory for new datasheet files and feeds them
// through the processing pipeline. Files already stored under their base
// name are skipped, so re-running over the same directory is idempotent.
type Service struct {
	db        *storage.DB
	cfg       config.Config
	processor *pipeline.ProcessingService
	log       zerolog.Logger
}

func NewService(db *storage.DB, cfg config.Config, log zerolog.Logger) *Service {
	return &Service{
		db:        db,
		cfg:       cfg,
		processor: pipeline.NewProcessingService(db, cfg, log),
		log:       log,
	}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			s.log.Error().Err(err).Msg("watch cycle error")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	pending, err := s.pendingFiles()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	if len(pending) > s.cfg.WatchBatch {
		pending = pending[:s.cfg.WatchBatch]
	}

	processed, failed := s.processor.ProcessBatch(pending, s.cfg.BatchWorkers)

	if s.cfg.WatchAutoExport {
		if err := s.exportProcessed(pending); err != nil {
			return err
		}
	}

	s.log.Info().Int("processed", processed).Int("failed", failed).Msg("watch cycle done")
	return nil
}

var datasheetExtensions = map[string]bool{
	".pdf": true, ".xlsx": true, ".xls": true, ".html": true, ".htm": true,
}

func (s *Service) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !datasheetExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		row, err := s.db.GetDocumentByFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		if row != nil {
			continue
		}
		out = append(out, filepath.Join(s.cfg.WatchDir, entry.Name()))
	}

	sort.Strings(out)
	return out, nil
}

func (s *Service) exportProcessed(paths []string) error {
	for _, path := range paths {
		filename := filepath.Base(path)
		row, err := s.db.GetDocumentByFilename(filename)
		if err != nil {
			return err
		}
		if row == nil || row.Status != "processed" {
			continue
		}

		stem := strings.TrimSuffix(filename, filepath.Ext(filename))
		fieldsPath := filepath.Join(s.cfg.OutputDir, "watch", fmt.Sprintf("%d_%s_fields.xlsx", row.ID, sanitizeName(stem)))
		productsPath := filepath.Join(s.cfg.OutputDir, "watch", fmt.Sprintf("%d_%s_products.xlsx", row.ID, sanitizeName(stem)))
		if err := s.processor.ExportDocument(filename, fieldsPath, productsPath); err != nil {
			return err
		}
		_ = s.db.UpdateDocumentStatus(row.ID, "exported")
	}
	return nil
}

func sanitizeName(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
