// Package tagindex maps tags to the documents that declare them and builds
// the tag-combination index pages rendered from that mapping.
package tagindex

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/itsmostafa/userdocs/internal/userdoc"
)

// ErrUnknownTag is returned when a tag that was never indexed is looked up.
var ErrUnknownTag = errors.New("unknown tag")

// Index maps each tag to the ordered set of document identifiers carrying it.
// Tags are kept in the order they were first seen.
type Index struct {
	order []string
	docs  map[string][]string
	seen  map[string]map[string]bool
	log   *slog.Logger
}

// New returns an empty index that reports skipped tags on log.
func New(log *slog.Logger) *Index {
	if log == nil {
		log = slog.Default()
	}
	return &Index{
		docs: make(map[string][]string),
		seen: make(map[string]map[string]bool),
		log:  log,
	}
}

// Update records id under every non-empty tag. Empty and whitespace-only
// tags, and tags that cannot be part of an index file name, are logged and
// skipped.
func (idx *Index) Update(id string, tags []string) {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			idx.log.Warn("skipping empty tag", "tag", tag, "document", id)
			continue
		}
		if !userdoc.ValidTag(tag) {
			idx.log.Warn("skipping tag unusable in a file name", "tag", tag, "document", id)
			continue
		}
		if _, ok := idx.docs[tag]; !ok {
			idx.order = append(idx.order, tag)
			idx.seen[tag] = make(map[string]bool)
		}
		if idx.seen[tag][id] {
			continue
		}
		idx.seen[tag][id] = true
		idx.docs[tag] = append(idx.docs[tag], id)
	}
}

// Get returns the documents carrying tag.
func (idx *Index) Get(tag string) ([]string, error) {
	docs, ok := idx.docs[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	out := make([]string, len(docs))
	copy(out, docs)
	return out, nil
}

// MustGet is like Get but panics on unknown tags.
func (idx *Index) MustGet(tag string) []string {
	docs, err := idx.Get(tag)
	if err != nil {
		panic(err)
	}
	return docs
}

// Has reports whether tag has been indexed.
func (idx *Index) Has(tag string) bool {
	_, ok := idx.docs[tag]
	return ok
}

// Tags returns all indexed tags in first-seen order.
func (idx *Index) Tags() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len returns the number of distinct tags.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Files returns every indexed document, sorted.
func (idx *Index) Files() []string {
	set := make(map[string]bool)
	for _, docs := range idx.docs {
		for _, d := range docs {
			set[d] = true
		}
	}
	files := make([]string, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Map returns a copy of the tag to documents mapping.
func (idx *Index) Map() map[string][]string {
	m := make(map[string][]string, len(idx.docs))
	for _, tag := range idx.order {
		m[tag] = idx.MustGet(tag)
	}
	return m
}
