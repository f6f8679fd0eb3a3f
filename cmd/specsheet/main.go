package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"specsheet/internal/config"
	"specsheet/internal/pipeline"
	"specsheet/internal/storage"
	"specsheet/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := newLogger(cfg)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	processor := pipeline.NewProcessingService(db, cfg, log)

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "datasheet path (pdf|xlsx|html)")
		out := fs.String("out", "", "optional fields xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		res, err := processor.ProcessFile(*input)
		must(err)
		fmt.Printf("extracted %s id=%d products=%d score=%d\n", res.Filename, res.DocumentID, res.Products, res.Score)
		if strings.TrimSpace(*out) != "" {
			stem := strings.TrimSuffix(*out, filepath.Ext(*out))
			must(processor.ExportDocument(res.Filename, *out, stem+"_products.xlsx"))
			fmt.Printf("exported fields to %s\n", *out)
		}
	case "batch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", "", "directory of datasheets")
		workers := fs.Int("workers", cfg.BatchWorkers, "worker count")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*dir) == "" {
			must(fmt.Errorf("--dir is required"))
		}
		paths, err := datasheetPaths(*dir)
		must(err)
		if len(paths) == 0 {
			must(fmt.Errorf("no datasheets found in %s", *dir))
		}
		processed, failed := processor.ProcessBatch(paths, *workers)
		fmt.Printf("batch done processed=%d failed=%d\n", processed, failed)
	case "merge":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "stored document filename")
		candidates := fs.String("candidates", "", "candidate json path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*candidates) == "" {
			must(fmt.Errorf("--file and --candidates are required"))
		}
		payload, err := os.ReadFile(*candidates)
		must(err)
		products, enhanced, err := processor.MergeCandidates(filepath.Base(*file), payload)
		must(err)
		fmt.Printf("merge done products=%d enhanced=%d\n", products, enhanced)
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "stored document filename")
		out := fs.String("out", "", "output xlsx path (fields sheet)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--file and --out are required"))
		}
		stem := strings.TrimSuffix(*out, filepath.Ext(*out))
		must(processor.ExportDocument(filepath.Base(*file), *out, stem+"_products.xlsx"))
		fmt.Printf("exported %s and %s_products.xlsx\n", *out, stem)
	case "watch":
		s := watcher.NewService(db, cfg, log)
		must(s.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

var datasheetExtensions = map[string]bool{
	".pdf": true, ".xlsx": true, ".xls": true, ".html": true, ".htm": true,
}

func datasheetPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !datasheetExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.LogFormat == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func usage() {
	fmt.Println("usage: specsheet <command>")
	fmt.Println("commands:")
	fmt.Println("  extract --input=./sheets/APW199.pdf [--out=./out/APW199.xlsx]")
	fmt.Println("  batch --dir=./sheets [--workers=4]")
	fmt.Println("  merge --file=APW199.pdf --candidates=./out/APW199_ai.json")
	fmt.Println("  export --file=APW199.pdf --out=./out/APW199.xlsx")
	fmt.Println("  watch")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
