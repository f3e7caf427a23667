package tagindex

import (
	"errors"
	"log/slog"

	"github.com/itsmostafa/userdocs/internal/userdoc"
	"github.com/spf13/afero"
)

// ScanStats counts the files seen by Scan.
type ScanStats struct {
	Files      int // Files in input
	Documented int // Files with a documentation block
}

// Scan loads every path under root and indexes the tags of those carrying
// user documentation. Files without documentation or that cannot be decoded
// are logged and skipped; a bad file never aborts the scan.
func Scan(fs afero.Fs, root string, paths []string, log *slog.Logger) (*Index, []userdoc.Document, ScanStats) {
	if log == nil {
		log = slog.Default()
	}
	idx := New(log)
	var docs []userdoc.Document
	var stats ScanStats

	log.Info("indexing keywords...")
	for _, path := range paths {
		stats.Files++
		log.Debug("scanning", "path", path)

		doc, err := userdoc.Load(fs, root, path)
		switch {
		case errors.Is(err, userdoc.ErrNoUserDocs):
			log.Warn(err.Error())
			continue
		case errors.Is(err, userdoc.ErrDecode):
			log.Warn("probably an incorrect input file", "path", path, "error", err)
			continue
		case err != nil:
			log.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}

		stats.Documented++
		log.Debug("extracted user documentation", "path", path, "keywords", doc.Tags)
		idx.Update(path, doc.Tags)
		docs = append(docs, doc)
	}

	log.Info("found tags", "count", idx.Len())
	for _, tag := range idx.order {
		log.Info("tag", "documents", len(idx.docs[tag]), "name", tag)
	}
	log.Debug("files in input", "count", stats.Files)
	log.Debug("files with documentation", "count", stats.Documented)

	return idx, docs, stats
}
