// File path: internal/cli/analyze.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ykosuru/cobolscan/internal/cobol"
	"github.com/ykosuru/cobolscan/internal/common"
	"github.com/ykosuru/cobolscan/internal/config"
	"github.com/ykosuru/cobolscan/internal/graph"
	"github.com/ykosuru/cobolscan/internal/store"
)

var (
	includePattern string
	excludePattern string
	outPath        string
	dotPath        string
	catalogPath    string
	quietFlag      bool
	workersFlag    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract the structural model from COBOL sources",
	Long: `Analyze runs the extraction pipeline over a COBOL source file or a
directory tree. Each file is processed independently; directories are
analyzed with a bounded worker pool.

Examples:
  # Analyze one program and print the model as JSON
  cobolscan analyze payroll.cbl

  # Analyze a tree, persist runs to a catalog, write the perform graph
  cobolscan analyze src/ --catalog runs.db --dot perform.dot

  # Restrict the file set
  cobolscan analyze src/ --include '**.cbl' --exclude '**/archive/**'
`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&includePattern, "include", "**.{cbl,cob,CBL,COB}", "glob pattern for files to analyze")
	analyzeCmd.Flags().StringVar(&excludePattern, "exclude", "", "glob pattern for files to skip")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write JSON results to this file (default stdout)")
	analyzeCmd.Flags().StringVar(&dotPath, "dot", "", "write the perform graph in DOT format to this file")
	analyzeCmd.Flags().StringVar(&catalogPath, "catalog", "", "persist runs to the SQLite catalog at this path")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable the progress bar")
	analyzeCmd.Flags().IntVar(&workersFlag, "workers", 4, "concurrent files analyzed")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := common.Logger()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	analyzer := cobol.New(cfg)

	files, err := discoverFiles(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no COBOL sources matched under %s", args[0])
	}

	var catalog *store.Store
	if catalogPath != "" {
		catalog, err = store.Open(catalogPath)
		if err != nil {
			return err
		}
		defer catalog.Close()
	}

	var bar *progressbar.ProgressBar
	if !quietFlag && len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Analyzing sources"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	workers := workersFlag
	if workers < 1 {
		workers = 1
	}
	type outcome struct {
		index  int
		result *cobol.Result
		err    error
		path   string
	}
	jobs := make(chan int)
	outcomes := make([]outcome, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				path := files[idx]
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					outcomes[idx] = outcome{index: idx, err: readErr, path: path}
				} else {
					res, runErr := analyzer.Analyze(ctx, path, data)
					outcomes[idx] = outcome{index: idx, result: res, err: runErr, path: path}
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}
	for idx := range files {
		select {
		case <-ctx.Done():
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var results []*cobol.Result
	for _, oc := range outcomes {
		if oc.err != nil {
			logger.Error("cli: analysis failed", "path", oc.path, "error", oc.err)
			if cfg.Strict {
				return fmt.Errorf("analyze %s: %w", oc.path, oc.err)
			}
			continue
		}
		if oc.result == nil {
			continue
		}
		results = append(results, oc.result)
		if catalog != nil {
			runID, saveErr := catalog.SaveResult(ctx, oc.result)
			if saveErr != nil {
				logger.Error("cli: persist failed", "path", oc.path, "error", saveErr)
				continue
			}
			logger.Info("cli: run persisted", "program", oc.result.Program, "run", runID)
		}
	}

	if dotPath != "" && len(results) > 0 {
		if err := writePerformGraph(results, dotPath); err != nil {
			return err
		}
	}
	return writeResults(results)
}

// discoverFiles resolves the input path to the ordered list of matching
// source files.
func discoverFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	include, err := glob.Compile(includePattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	var exclude glob.Glob
	if excludePattern != "" {
		exclude, err = glob.Compile(excludePattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := filepath.ToSlash(path)
		if !include.Match(rel) && !include.Match(filepath.Base(path)) {
			return nil
		}
		if exclude != nil && exclude.Match(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func writePerformGraph(results []*cobol.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dot file: %w", err)
	}
	defer f.Close()
	for _, res := range results {
		pg := graph.Build(res.Procedures)
		if err := pg.WriteDOT(f); err != nil {
			return fmt.Errorf("render perform graph for %s: %w", res.Program, err)
		}
	}
	return nil
}

func writeResults(results []*cobol.Result) error {
	var out *os.File
	if outPath == "" || outPath == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
