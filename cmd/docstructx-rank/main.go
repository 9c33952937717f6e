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
	"time"

	"github.com/spf13/pflag"

	"github.com/docstructx/docstructx/internal/outline"
	"github.com/docstructx/docstructx/internal/pdf"
	"github.com/docstructx/docstructx/internal/ranking"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	input := pflag.String("input", "input", "Directory containing the PDF collection")
	persona := pflag.String("persona", "", "Persona description the sections are ranked for")
	job := pflag.String("job", "", "Job-to-be-done the sections are ranked for")
	out := pflag.String("out", "ranking.json", "Output report file")
	maxRuntime := pflag.Float64("maxruntime", 55, "Wall-clock budget for the whole run, in seconds")
	pflag.Usage = usage
	pflag.Parse()

	log.SetOutput(os.Stderr)

	if *persona == "" || *job == "" {
		usage()
		os.Exit(1)
	}

	if err := run(*input, *persona, *job, *out, *maxRuntime); err != nil {
		log.Fatalf("Ranking failed: %v", err)
	}
}

// run extracts outlines for every document in the collection, ranks the
// derived sections against the persona + job query and writes the report.
func run(inputDir, persona, job, outFile string, maxRuntimeSecs float64) error {
	paths, err := findPDFs(inputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", inputDir)
	}

	provider := pdf.NewProvider()
	engine := outline.NewEngine(provider)

	cfg := ranking.DefaultConfig()
	cfg.MaxRuntime = secondsToDuration(maxRuntimeSecs)
	ranker := ranking.NewRankerWithConfig(persona, job, engine, provider, cfg)

	sections, subSections := ranker.RankCollection(paths)
	report := ranker.BuildReport(paths, persona, job, sections, subSections)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}
	log.Printf("[done] ranked %d sections across %d documents: %s", len(sections), len(paths), outFile)
	return nil
}

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

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\ndocstructx-rank - persona/job relevance ranking over extracted outlines\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExample:\n")
	fmt.Fprintf(os.Stderr, "  %s --input=/data/pdfs --persona=\"PhD researcher\" --job=\"literature review\" --out=report.json\n",
		os.Args[0])
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("docstructx-rank\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
