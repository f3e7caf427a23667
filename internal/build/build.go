// Package build runs the userdocs pipeline: discover sources, index their
// tags, rewrite every documentation block into a page and render one index
// page per tag combination.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/itsmostafa/userdocs/internal/config"
	"github.com/itsmostafa/userdocs/internal/tagindex"
	"github.com/itsmostafa/userdocs/internal/userdoc"
	"github.com/spf13/afero"
)

// ErrStale is returned in check mode when generated output differs from the
// files in the output directory.
var ErrStale = errors.New("generated documentation is out of date")

// Names of the JSON side files.
const (
	TagsFile       = "tags.json"
	IndexFilesFile = "indexfiles.json"
	TocTreeFile    = "toc-tree.json"
)

// Options configures a build.
type Options struct {
	Fs         afero.Fs
	BaseDir    string
	OutDir     string
	ReplaceExt string
	Include    []string
	Exclude    []string
	MaxDepth   int

	ShortDescription string
	SeeAlso          string
	Render           tagindex.RenderOptions

	// Check compares the output with OutDir instead of writing it.
	Check bool
	// Debounce is how long watch mode waits for changes to settle.
	Debounce time.Duration

	Log *slog.Logger
}

// OptionsFromConfig builds options operating on the OS filesystem.
func OptionsFromConfig(cfg config.Config, log *slog.Logger) Options {
	return Options{
		Fs:               afero.NewOsFs(),
		BaseDir:          cfg.BaseDir,
		OutDir:           cfg.OutDir,
		ReplaceExt:       cfg.ReplaceExt,
		Include:          cfg.Include,
		Exclude:          cfg.Exclude,
		MaxDepth:         cfg.MaxDepth,
		ShortDescription: cfg.ShortDescription,
		SeeAlso:          cfg.SeeAlso,
		Render: tagindex.RenderOptions{
			Title:       cfg.Index.Title,
			Description: cfg.Index.Description,
			Underlines:  cfg.Underlines,
		},
		Log: log,
	}
}

func (o *Options) setDefaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = tagindex.DefaultMaxDepth
	}
	if o.ShortDescription == "" {
		o.ShortDescription = userdoc.ShortDescriptionTitle
	}
	if o.SeeAlso == "" {
		o.SeeAlso = userdoc.SeeAlsoTitle
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Render == (tagindex.RenderOptions{}) {
		o.Render = tagindex.DefaultRenderOptions()
	}
}

// Report summarizes a build.
type Report struct {
	Files        int
	Documented   int
	Pages        int
	Tags         int
	Combinations int
	Indices      int
	Unfixed      []string
	Stale        []Stale
	Duration     time.Duration
}

// Scan discovers the sources under opts.BaseDir and indexes them.
func Scan(opts Options) (*tagindex.Index, []userdoc.Document, tagindex.ScanStats, error) {
	opts.setDefaults()

	paths, err := SourceFiles(opts.Fs, opts.BaseDir, opts.Include, opts.Exclude, opts.Log)
	if err != nil {
		return nil, nil, tagindex.ScanStats{}, err
	}

	idx, docs, stats := tagindex.Scan(opts.Fs, opts.BaseDir, paths, opts.Log)
	return idx, docs, stats, nil
}

// Run executes the full pipeline. In check mode nothing is written and
// ErrStale is returned together with the report when any output differs.
func Run(ctx context.Context, opts Options) (*Report, error) {
	opts.setDefaults()
	start := time.Now()
	log := opts.Log

	idx, docs, stats, err := Scan(opts)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Files:      stats.Files,
		Documented: stats.Documented,
		Tags:       idx.Len(),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	site := NewSite()
	pages := make(map[string]string, len(docs))
	for _, doc := range docs {
		page, fixed := renderPage(doc, opts)
		if !fixed {
			report.Unfixed = append(report.Unfixed, doc.Path)
		}

		name := doc.PageName() + opts.ReplaceExt
		if site.Add(name, []byte(page.Text)) {
			log.Warn("page generated twice, keeping the last", "page", name, "path", doc.Path)
		}
		pages[doc.Path] = name
	}
	report.Pages = site.Len()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indices, attempted, err := renderIndices(idx, opts)
	if err != nil {
		return nil, err
	}
	report.Combinations = attempted
	report.Indices = len(indices)

	indexFiles := make([]string, 0, len(indices))
	for _, ix := range indices {
		site.Add(ix.name, []byte(ix.text))
		indexFiles = append(indexFiles, ix.name)
	}

	if err := addSideFiles(site, idx, pages, indexFiles, opts.ReplaceExt); err != nil {
		return nil, err
	}

	if opts.Check {
		stale, err := site.Check(opts.Fs, opts.OutDir)
		if err != nil {
			return nil, err
		}
		report.Stale = stale
		report.Duration = time.Since(start)
		if len(stale) > 0 {
			log.Warn("output is stale", "files", len(stale), "outdir", opts.OutDir)
			return report, fmt.Errorf("%w: %d files differ in %s", ErrStale, len(stale), opts.OutDir)
		}
		return report, nil
	}

	if err := site.Write(opts.Fs, opts.OutDir); err != nil {
		return nil, err
	}
	log.Info("wrote documentation", "files", site.Len(), "outdir", opts.OutDir)

	report.Duration = time.Since(start)
	return report, nil
}

// renderPage applies the section rewrites to doc in order. The first step
// that fails ends the rewrite and the page keeps the previous step's output.
func renderPage(doc userdoc.Document, opts Options) (userdoc.Document, bool) {
	log := opts.Log

	next, err := userdoc.RewriteShortDescription(doc, opts.ShortDescription, log)
	if err != nil {
		log.Warn("could not fix page title", "path", doc.Path, "error", err)
		return doc, false
	}
	doc = next

	next, err = userdoc.RewriteSeeAlso(doc, opts.SeeAlso, log)
	switch {
	case errors.Is(err, userdoc.ErrMissingSection):
		log.Info("no see-also section to replace", "path", doc.Path)
		return doc, true
	case err != nil:
		log.Warn("see-also rewrite failed", "path", doc.Path, "error", err)
		return doc, false
	}
	return next, true
}

type indexPage struct {
	name string
	text string
}

// renderIndices renders one page per non-empty tag combination and returns
// the pages in generation order plus the number of combinations attempted.
func renderIndices(idx *tagindex.Index, opts Options) ([]indexPage, int, error) {
	log := opts.Log
	tags := idx.Tags()
	sort.Strings(tags)
	log.Info("creating indices",
		"depth", tagindex.Depth(len(tags), opts.MaxDepth),
		"combinations", tagindex.CombinationCount(len(tags), opts.MaxDepth))
	combos := tagindex.Combinations(tags, opts.MaxDepth)

	var pages []indexPage
	for _, combo := range combos {
		current := make([]string, len(combo))
		copy(current, combo)
		sort.Strings(current)

		nodes, err := tagindex.MakeHierarchy(idx, current...)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to build hierarchy for %v: %w", current, err)
		}
		if tagindex.Empty(nodes) {
			log.Debug("skipping empty combination", "tags", current)
			continue
		}
		if len(nodes) == 1 {
			log.Debug("hierarchy", "tags", current, "tree", nodes[0])
		}

		text, err := tagindex.RenderIndex(nodes, current, opts.Render)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to render index for %v: %w", current, err)
		}
		pages = append(pages, indexPage{
			name: userdoc.IndexPage(current...) + opts.ReplaceExt,
			text: text,
		})
	}

	log.Info("index combinations", "attempted", len(combos), "written", len(pages))
	return pages, len(combos), nil
}

// addSideFiles stores the JSON files describing the generated pages.
func addSideFiles(site *Site, idx *tagindex.Index, pages map[string]string, indexFiles []string, ext string) error {
	tags := make(map[string][]string, idx.Len())
	for tag, docs := range idx.Map() {
		names := make([]string, 0, len(docs))
		for _, d := range docs {
			if name, ok := pages[d]; ok {
				names = append(names, name)
			}
		}
		tags[tag] = uniqueSorted(names)
	}

	var pageNames []string
	for _, name := range pages {
		pageNames = append(pageNames, strings.TrimSuffix(name, ext))
	}
	var indexNames []string
	for _, name := range indexFiles {
		indexNames = append(indexNames, strings.TrimSuffix(name, ext))
	}
	toc := append(uniqueSorted(pageNames), uniqueSorted(indexNames)...)

	for name, v := range map[string]any{
		TagsFile:       tags,
		IndexFilesFile: indexFiles,
		TocTreeFile:    toc,
	} {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		site.Add(name, append(data, '\n'))
	}
	return nil
}

func uniqueSorted(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
