package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/docstructx/docstructx/internal/config"
	"github.com/docstructx/docstructx/internal/outline"
	"github.com/docstructx/docstructx/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	log.Println("[done] processing complete")
}

// run processes every PDF in the input directory and writes one outline
// JSON file per document. A malformed document never fails the batch;
// the engine degrades it to a placeholder outline instead.
func run(cfg *config.Config) error {
	files, err := findPDFs(cfg.InputDirectory)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", cfg.InputDirectory)
	}

	engineCfg := outline.DefaultConfig()
	engineCfg.MaxRuntime = cfg.MaxRuntime()

	validator := pdf.NewValidator(cfg.MaxFileSize)
	engine := outline.NewEngineWithConfig(pdf.NewProvider(), engineCfg)

	for _, file := range files {
		log.Printf("[process] processing: %s", filepath.Base(file))
		if err := validator.ValidateFile(file); err != nil {
			log.Printf("[warn] skipping %s: %v", filepath.Base(file), err)
			continue
		}

		result := engine.ExtractOutline(file)

		outFile := filepath.Join(cfg.OutputDirectory, stem(file)+".json")
		if err := writeOutline(outFile, result); err != nil {
			return fmt.Errorf("writing %s: %w", outFile, err)
		}
		log.Printf("[process] saved output: %s", outFile)
	}
	return nil
}

// findPDFs lists the PDF files of a directory in name order
func findPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// writeOutline serializes one outline to disk
func writeOutline(path string, o outline.Outline) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// stem returns a file name without directory and extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// setupLogging configures logging based on the configured level
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("docstructx\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
