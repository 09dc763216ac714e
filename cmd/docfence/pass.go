package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docfence/internal/classify"
	"docfence/internal/diagfmt"
	"docfence/internal/driver"
	"docfence/internal/observ"
	"docfence/internal/project"
	"docfence/internal/repair"
)

const summaryRule = "=================================================="

// addPassFlags registers the flags shared by annotate and repair.
func addPassFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "report changes without writing files")
	cmd.Flags().Bool("check", false, "fail if any file would change; write nothing")
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().StringSlice("ext", nil, "document extensions to scan (default from config, .md)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type passFlags struct {
	dryRun     bool
	check      bool
	format     string
	exts       []string
	ui         uiMode
	quiet      bool
	timings    bool
	useCache   bool
	clearCache bool
	verify     bool
}

func readPassFlags(cmd *cobra.Command, pass driver.Pass) (passFlags, error) {
	var (
		pf  passFlags
		err error
	)
	if pf.dryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return pf, err
	}
	if pf.check, err = cmd.Flags().GetBool("check"); err != nil {
		return pf, err
	}
	if pf.format, err = cmd.Flags().GetString("format"); err != nil {
		return pf, err
	}
	pf.format = strings.ToLower(strings.TrimSpace(pf.format))
	if pf.format != "text" && pf.format != "json" {
		return pf, fmt.Errorf("%s: unsupported output format %q (must be text or json)", pass, pf.format)
	}
	if pf.exts, err = cmd.Flags().GetStringSlice("ext"); err != nil {
		return pf, err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return pf, err
	}
	if pf.ui, err = readUIMode(uiFlag); err != nil {
		return pf, err
	}
	if pf.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return pf, err
	}
	if pf.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return pf, err
	}
	if pass == driver.PassAnnotate {
		if pf.useCache, err = cmd.Flags().GetBool("cache"); err != nil {
			return pf, err
		}
		if pf.clearCache, err = cmd.Flags().GetBool("clear-cache"); err != nil {
			return pf, err
		}
		if pf.verify, err = cmd.Flags().GetBool("verify"); err != nil {
			return pf, err
		}
	}
	return pf, nil
}

// loadConfig reads --config, or searches for docfence.toml from the working directory.
func loadConfig(cmd *cobra.Command) (*project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *project.Config
	if path != "" {
		cfg, err = project.Load(path)
	} else {
		cfg, err = project.Discover(".")
	}
	if err != nil {
		return nil, err
	}
	cfg.ToolDir = executableDir()
	return cfg, nil
}

// executableDir returns the directory of the running binary, or "" when it is unknown.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func runPass(cmd *cobra.Command, args []string, pass driver.Pass) error {
	pf, err := readPassFlags(cmd, pass)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", pass, err)
	}
	defer stopProfiling()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", pass, err)
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", zap.String("path", cfg.Path))
	}

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}
	root, err := driver.ResolveRoot(cfg.RootCandidates(explicit)...)
	if err != nil {
		return fmt.Errorf("%s: %w", pass, err)
	}

	exts := pf.exts
	if len(exts) == 0 {
		exts = cfg.Docs.Extensions
	}

	timer := observ.NewTimer()
	idx := timer.Begin("discover")
	files, err := driver.CollectFiles(cmd.Context(), root, exts)
	timer.End(idx, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return fmt.Errorf("%s: failed to collect documents under %s: %w", pass, root, err)
	}

	opts := driver.Options{
		Root:       root,
		Files:      files,
		Extensions: exts,
		Pass:       pass,
		DryRun:     pf.dryRun,
		Check:      pf.check,
		Verify:     pf.verify,
		Classifier: classify.New(cfg.ClassifyOptions()),
		Repairer:   repair.New(cfg.Repair.Tag),
		Logger:     logger,
		Timer:      timer,
	}
	if pf.useCache || pf.clearCache {
		cache, err := driver.OpenDiskCache("docfence")
		if err != nil {
			return fmt.Errorf("%s: failed to open cache: %w", pass, err)
		}
		if pf.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("%s: failed to clear cache: %w", pass, err)
			}
			logger.Debug("cache cleared", zap.String("dir", cache.Dir()))
		}
		if pf.useCache {
			opts.Cache = cache
		}
	}

	out := cmd.OutOrStdout()
	jsonOutput := pf.format == "json"
	if !jsonOutput && !pf.quiet {
		printHeader(out, root, pf)
	}

	var summary *driver.Summary
	if shouldUseTUI(pf.ui, jsonOutput, pf.quiet) && len(files) > 0 {
		summary, err = runWithUI(cmd.Context(), fmt.Sprintf("%s %s", pass, root), opts)
	} else {
		summary, err = driver.Run(cmd.Context(), opts)
	}
	for _, phase := range timer.Phases() {
		logger.Debug("phase finished", zap.String("phase", phase.Name), zap.Duration("took", phase.Dur), zap.String("note", phase.Note))
	}
	if err != nil && !errors.Is(err, driver.ErrChangesRequired) {
		if summary != nil && !jsonOutput {
			printDiagnostics(cmd.ErrOrStderr(), summary)
		}
		return fmt.Errorf("%s: %w", pass, err)
	}

	if jsonOutput {
		if renderErr := renderJSON(out, summary, timer, pf.timings); renderErr != nil {
			return renderErr
		}
	} else {
		if !pf.quiet {
			printDiagnostics(out, summary)
		}
		renderText(out, summary, pf)
		if pf.timings {
			printTimings(cmd.ErrOrStderr(), timer)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", pass, err)
	}
	return nil
}

func printHeader(out io.Writer, root string, pf passFlags) {
	fmt.Fprintf(out, "Scanning %s...\n", root)
	switch {
	case pf.check:
		fmt.Fprintln(out, "CHECK MODE - no files will be modified")
	case pf.dryRun:
		fmt.Fprintln(out, "DRY RUN MODE - no files will be modified")
	}
	fmt.Fprintln(out)
}

func renderText(out io.Writer, summary *driver.Summary, pf passFlags) {
	if summary == nil {
		return
	}
	fixedColor := color.New(color.FgGreen)
	warnColor := color.New(color.FgYellow)

	preview := pf.dryRun || pf.check
	for _, res := range summary.Files {
		if !res.Changed || pf.quiet {
			continue
		}
		prefix := ""
		switch {
		case pf.check:
			prefix = "[CHECK] "
		case pf.dryRun:
			prefix = "[DRY RUN] "
		}
		fixedColor.Fprintf(out, "%sFixed %d blocks in %s\n", prefix, res.Fixed, res.Path)
	}
	if pf.quiet {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, summaryRule)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  Files modified: %d\n", summary.FilesModified)
	fmt.Fprintf(out, "  Blocks fixed: %d\n", summary.BlocksFixed)
	if summary.Pass == driver.PassAnnotate {
		fmt.Fprintf(out, "  Blocks skipped (already annotated): %d\n", summary.BlocksSkipped)
	}
	if summary.Diagnostics.HasWarnings() {
		warnColor.Fprintf(out, "  Warnings: %d\n", summary.Diagnostics.Len())
	}
	if preview && summary.FilesModified > 0 {
		fmt.Fprintln(out)
		if pf.check {
			warnColor.Fprintln(out, "Run without --check to apply changes")
		} else {
			fmt.Fprintln(out, "Run without --dry-run to apply changes")
		}
	}
}

func printDiagnostics(out io.Writer, summary *driver.Summary) {
	if summary.Diagnostics == nil || summary.Diagnostics.Len() == 0 {
		return
	}
	diagfmt.Pretty(out, summary.Diagnostics, summary.FileSet, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	})
	fmt.Fprintln(out)
}

func renderJSON(out io.Writer, summary *driver.Summary, timer *observ.Timer, withTimings bool) error {
	payload := struct {
		*driver.Summary
		Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
		Timings     *observ.Report           `json:"timings,omitempty"`
	}{
		Summary:     summary,
		Diagnostics: diagfmt.BuildDiagnosticsOutput(summary.Diagnostics, summary.FileSet, diagfmt.JSONOpts{IncludePositions: true}).Diagnostics,
	}
	if withTimings {
		report := timer.Report()
		payload.Timings = &report
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func printTimings(out io.Writer, timer *observ.Timer) {
	fmt.Fprint(out, timer.Summary())
}
