package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"specsheet/internal/config"
	"specsheet/internal/storage"
)

type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	extractor *Extractor
	log       zerolog.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, log zerolog.Logger) *ProcessingService {
	return &ProcessingService{
		db:        db,
		cfg:       cfg,
		extractor: NewExtractor(cfg),
		log:       log,
	}
}

type ProcessResult struct {
	DocumentID int
	Filename   string
	Products   int
	Score      int
}

// ProcessFile extracts one datasheet, persists the result and synthesizes
// the fallback product set. Document-level failures degrade rather than
// abort: the document is stored with all-default fields and status
// "failed".
func (s *ProcessingService) ProcessFile(path string) (ProcessResult, error) {
	start := time.Now()

	result, docErr := s.extractor.ExtractFile(path)
	if docErr != nil {
		s.log.Warn().Err(docErr.Cause).Str("file", docErr.Filename).Msg("extraction degraded")
	}

	row, err := s.db.SaveResult(result)
	if err != nil {
		return ProcessResult{}, err
	}

	if docErr != nil {
		_ = s.db.UpdateDocumentStatus(row.ID, "failed")
	} else {
		_ = s.db.UpdateDocumentStatus(row.ID, "processed")
	}

	products := MergeProducts(result, nil, result.Series)
	if err := s.db.ReplaceProducts(row.ID, products); err != nil {
		return ProcessResult{}, err
	}

	_ = s.db.InsertRun(uuid.NewString(), row.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"fields": len(result.Fields), "modelCodes": len(result.ModelCodes), "products": len(products)})

	s.log.Info().
		Str("file", result.Filename).
		Str("type", string(result.ProductType)).
		Int("score", result.ConfidenceScore).
		Int("products", len(products)).
		Msg("document processed")

	return ProcessResult{DocumentID: row.ID, Filename: result.Filename, Products: len(products), Score: result.ConfidenceScore}, nil
}

// ProcessBatch runs ProcessFile over a set of paths with a bounded worker
// pool. Per-file errors are logged and counted, never fatal to the batch.
func (s *ProcessingService) ProcessBatch(paths []string, workers int) (int, int) {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	processed, failed := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				_, err := s.ProcessFile(path)
				mu.Lock()
				if err != nil {
					failed++
					s.log.Error().Err(err).Str("file", path).Msg("processing failed")
				} else {
					processed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	return processed, failed
}

// MergeCandidates reconciles a stored document with an external candidate
// payload: low-confidence fields are enhanced in place, then the product
// set is rebuilt per candidate model code. Returns the stored product count
// and the number of enhanced fields.
func (s *ProcessingService) MergeCandidates(filename string, payload []byte) (int, int, error) {
	row, err := s.db.MustDocumentByFilename(filename)
	if err != nil {
		return 0, 0, err
	}

	result, err := s.db.GetResult(row.ID)
	if err != nil {
		return 0, 0, err
	}

	candidates, err := DecodeCandidates(payload)
	if err != nil {
		return 0, 0, err
	}

	enhanced := 0
	for _, cand := range candidates {
		enhanced += EnhanceFromCandidate(&result, cand)
	}

	products := MergeProducts(result, candidates, result.Series)

	if enhanced > 0 {
		if _, err := s.db.SaveResult(result); err != nil {
			return 0, 0, err
		}
	}
	if err := s.db.ReplaceProducts(row.ID, products); err != nil {
		return 0, 0, err
	}
	if err := s.db.UpdateDocumentStatus(row.ID, "merged"); err != nil {
		return 0, 0, err
	}

	s.log.Info().
		Str("file", filename).
		Int("candidates", len(candidates)).
		Int("products", len(products)).
		Int("enhanced", enhanced).
		Msg("candidates merged")

	return len(products), enhanced, nil
}

// ExportDocument writes both the per-field breakdown and the merged product
// sheet for one stored document.
func (s *ProcessingService) ExportDocument(filename, fieldsPath, productsPath string) error {
	row, err := s.db.MustDocumentByFilename(filename)
	if err != nil {
		return err
	}

	result, err := s.db.GetResult(row.ID)
	if err != nil {
		return err
	}
	if err := ExportDocumentToXLSX(result, fieldsPath); err != nil {
		return err
	}

	products, err := s.db.ListProducts(row.ID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		products = MergeProducts(result, nil, result.Series)
	}
	return ExportProductsToXLSX(products, productsPath)
}
