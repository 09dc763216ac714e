// Package driver walks a documentation tree and runs the annotate or repair
// pass over every document, one file at a time.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"docfence/internal/annotate"
	"docfence/internal/classify"
	"docfence/internal/diag"
	"docfence/internal/observ"
	"docfence/internal/repair"
	"docfence/internal/source"
)

// Pass selects the transformation applied to each document.
type Pass string

const (
	// PassAnnotate rewrites opening fence tags.
	PassAnnotate Pass = "annotate"
	// PassRepair strips erroneous tags from closing fences.
	PassRepair Pass = "repair"
)

// ErrChangesRequired is returned in check mode when at least one document would change.
var ErrChangesRequired = errors.New("documents need changes")

// Options configures a Run.
type Options struct {
	// Root is walked when Files is empty.
	Root       string
	// Files overrides discovery.
	Files      []string
	Extensions []string
	Pass       Pass
	DryRun     bool
	Check      bool
	// Verify compares goldmark's view of the fenced blocks before and after the annotate pass.
	Verify     bool
	Classifier *classify.Classifier
	Repairer   *repair.Repairer
	Cache      *DiskCache
	Progress   ProgressSink
	Logger     *zap.Logger
	Timer      *observ.Timer
}

// FileResult is the outcome for one document.
type FileResult struct {
	Path          string            `json:"path"`
	Changed       bool              `json:"changed"`
	Written       bool              `json:"written"`
	Fixed         int               `json:"fixed"`
	Skipped       int               `json:"skipped"`
	Changes       []annotate.Change `json:"changes,omitempty"`
	TaggedClosers []int             `json:"tagged_closers,omitempty"`
	Excluded      bool              `json:"excluded,omitempty"`
	Cached        bool              `json:"cached,omitempty"`
	// Rejected is set when structure verification refused the rewrite.
	Rejected      bool              `json:"rejected,omitempty"`
}

// Summary aggregates the results of a Run.
type Summary struct {
	Root          string       `json:"root"`
	Pass          Pass         `json:"pass"`
	DryRun        bool         `json:"dry_run"`
	Check         bool         `json:"check"`
	Files         []FileResult `json:"files"`
	FilesScanned  int          `json:"files_scanned"`
	FilesModified int          `json:"files_modified"`
	BlocksFixed   int          `json:"blocks_fixed"`
	BlocksSkipped int          `json:"blocks_skipped"`

	// Diagnostics holds warnings about the documents; spans resolve against FileSet.
	Diagnostics *diag.Bag       `json:"-"`
	FileSet     *source.FileSet `json:"-"`
}

func (s *Summary) add(res FileResult) {
	s.Files = append(s.Files, res)
	s.FilesScanned++
	if res.Changed {
		s.FilesModified++
	}
	s.BlocksFixed += res.Fixed
	s.BlocksSkipped += res.Skipped
}

// Run processes every document and returns the folded summary. Read and
// write failures abort the run; a rewrite that fails verification is dropped
// with a warning and the run goes on; the summary collected so far is
// returned alongside the error. In check mode ErrChangesRequired is returned
// when any document would change.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	fs := source.NewFileSetWithBase(opts.Root)
	summary := &Summary{
		Root:        opts.Root,
		Pass:        opts.Pass,
		DryRun:      opts.DryRun,
		Check:       opts.Check,
		Diagnostics: diag.NewBag(0),
		FileSet:     fs,
	}

	files := opts.Files
	if len(files) == 0 {
		idx := opts.Timer.Begin("discover")
		var err error
		files, err = CollectFiles(ctx, opts.Root, opts.Extensions)
		opts.Timer.End(idx, fmt.Sprintf("%d files", len(files)))
		if err != nil {
			return summary, fmt.Errorf("failed to collect documents under %s: %w", opts.Root, err)
		}
	}
	log.Debug("documents collected", zap.String("root", opts.Root), zap.Int("count", len(files)))

	for _, path := range files {
		opts.Progress.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	fingerprint := opts.fingerprint()

	idx := opts.Timer.Begin("transform")
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			opts.Timer.End(idx, "cancelled")
			return summary, err
		}
		res, err := processFile(fs, summary.Diagnostics, path, fingerprint, opts)
		if err != nil {
			opts.Progress.OnEvent(Event{File: path, Stage: StageTransform, Status: StatusError, Err: err})
			opts.Timer.End(idx, "failed")
			return summary, err
		}
		opts.Progress.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusDone, Fixed: res.Fixed})
		summary.add(res)
	}
	opts.Timer.End(idx, fmt.Sprintf("%d modified", summary.FilesModified))
	summary.Diagnostics.Sort()

	if opts.Check && summary.FilesModified > 0 {
		return summary, fmt.Errorf("%w: %d file(s)", ErrChangesRequired, summary.FilesModified)
	}
	return summary, nil
}

func processFile(fs *source.FileSet, bag *diag.Bag, path, fingerprint string, opts Options) (FileResult, error) {
	log := opts.Logger.With(zap.String("file", path))
	res := FileResult{Path: path}
	r := diag.BagReporter{Bag: bag}
	reported := bag.Len()

	opts.Progress.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})
	id, err := fs.Load(path)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}
	file := fs.Get(id)

	excluded, err := optedOut(file.Content)
	if err != nil {
		// битый front matter не повод падать - обрабатываем документ как есть
		log.Debug("front matter not parsed", zap.Error(err))
		r.Report(diag.DocBadFrontMatter, diag.SevWarning, source.SpanOf(id, 0, 0),
			fmt.Sprintf("front matter ignored: %v", err), nil)
	}
	if excluded {
		log.Debug("document opted out")
		res.Excluded = true
		return res, nil
	}

	key := ""
	if opts.Cache != nil {
		key = CacheKey(file.Hash, opts.Pass, fingerprint)
		var entry CacheEntry
		hit, err := opts.Cache.Get(key, &entry)
		if err != nil {
			log.Debug("cache read failed", zap.Error(err))
		}
		if hit {
			log.Debug("cache hit")
			res.Cached = true
			return res, nil
		}
	}

	opts.Progress.OnEvent(Event{File: path, Stage: StageTransform, Status: StatusWorking})
	before := file.Text()
	after := before
	switch opts.Pass {
	case PassRepair:
		after, res.Fixed = opts.Repairer.Repair(before)
	default:
		out, err := annotate.AnnotateFile(id, before, opts.Classifier, r)
		if err != nil {
			return res, fmt.Errorf("failed to annotate %s: %w", path, err)
		}
		after = out.Text
		res.Fixed = out.Fixed
		res.Skipped = out.Skipped
		res.Changes = out.Changes
		res.TaggedClosers = out.TaggedClosers
		for _, ch := range out.Changes {
			log.Debug("block retagged",
				zap.Int("line", ch.Line),
				zap.String("from", ch.OldTag),
				zap.String("to", ch.NewTag),
				zap.String("rule", ch.Rule))
		}
	}
	res.Changed = after != before

	if !res.Changed {
		// документы с предупреждениями не кэшируем, иначе предупреждения пропадут
		if key != "" && bag.Len() == reported {
			if err := opts.Cache.Put(key, &CacheEntry{Path: path, Pass: string(opts.Pass), Fingerprint: fingerprint}); err != nil {
				log.Debug("cache write failed", zap.Error(err))
			}
		}
		return res, nil
	}

	// с тегированными закрывашками goldmark видит другие блоки: сравнивать нечего
	if opts.Verify && opts.Pass != PassRepair && len(res.TaggedClosers) == 0 {
		opts.Progress.OnEvent(Event{File: path, Stage: StageVerify, Status: StatusWorking})
		if err := VerifyStructure(before, after); err != nil {
			log.Debug("rewrite rejected", zap.Error(err))
			r.Report(diag.DocStructureChanged, diag.SevWarning, source.SpanOf(id, 0, 0),
				fmt.Sprintf("document left unchanged: %v", err), nil)
			res.Changed = false
			res.Rejected = true
			res.Skipped += res.Fixed
			res.Fixed = 0
			res.Changes = nil
			return res, nil
		}
	}

	if opts.DryRun || opts.Check {
		return res, nil
	}

	opts.Progress.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusWorking})
	if err := writeDocument(path, file.Denormalize([]byte(after))); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Written = true
	log.Debug("document written", zap.Int("fixed", res.Fixed))
	return res, nil
}

// writeDocument replaces path atomically, keeping its permissions.
func writeDocument(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return writeFileAtomic(path, data, perm)
}

func (o Options) withDefaults() Options {
	if o.Pass == "" {
		o.Pass = PassAnnotate
	}
	if o.Classifier == nil {
		o.Classifier = classify.Default()
	}
	if o.Repairer == nil {
		o.Repairer = repair.New(repair.DefaultTag)
	}
	if o.Progress == nil {
		o.Progress = nopSink{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Timer == nil {
		o.Timer = observ.NewTimer()
	}
	return o
}

func (o Options) fingerprint() string {
	if o.Pass == PassRepair {
		return "repair:" + o.Repairer.Tag()
	}
	return o.Classifier.Fingerprint()
}
