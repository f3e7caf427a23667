package userdoc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default section titles rewritten by the pipeline.
const (
	ShortDescriptionTitle = "Short description"
	SeeAlsoTitle          = "See also"
)

// ErrMissingSection is matched by every *SectionError.
var ErrMissingSection = errors.New("section not found")

// SectionError reports a section a rewrite needed but could not find.
type SectionError struct {
	Title string
	Path  string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("no section %q found in %s", e.Title, e.Path)
}

func (e *SectionError) Unwrap() error {
	return ErrMissingSection
}

// RewriteShortDescription replaces the section titled title with a document
// title built from the page name and the section content, flattened to one
// line. The new title keeps the section's underline character.
func RewriteShortDescription(doc Document, title string, log *slog.Logger) (Document, error) {
	sections := Sections(doc.Text, log)
	s, end, ok := findSection(sections, title, len(doc.Text))
	if !ok {
		return Document{}, &SectionError{Title: title, Path: doc.Path}
	}

	desc := flatten(doc.Text[s.End:end])
	fixed := doc.PageName() + " – " + desc

	var b strings.Builder
	b.WriteString(doc.Text[:s.Start])
	b.WriteString(fixed)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(string(s.Underline), width.StringWidth(fixed)))
	b.WriteString("\n\n")
	b.WriteString(doc.Text[end:])

	return doc.WithText(b.String()), nil
}

// RewriteSeeAlso replaces the content of the section titled title with links
// to the index pages of the document's tags. Hand-written content in that
// section is dropped and logged.
func RewriteSeeAlso(doc Document, title string, log *slog.Logger) (Document, error) {
	log = orDefault(log)
	sections := Sections(doc.Text, log)
	s, end, ok := findSection(sections, title, len(doc.Text))
	if !ok {
		return Document{}, &SectionError{Title: title, Path: doc.Path}
	}

	if manual := flatten(doc.Text[s.End:end]); manual != "" {
		log.Info("dropping manual 'see also' list", "path", doc.Path, "content", manual)
	}

	var b strings.Builder
	b.WriteString(doc.Text[:s.End])
	b.WriteString("\n")
	b.WriteString(strings.Join(SeeAlsoLinks(doc.CleanTags()), ", "))
	b.WriteString("\n\n")
	b.WriteString(doc.Text[end:])

	return doc.WithText(b.String()), nil
}

// SeeAlsoLinks returns one :doc: link per tag, pointing at the tag's index page.
func SeeAlsoLinks(tags []string) []string {
	links := make([]string, 0, len(tags))
	for _, tag := range tags {
		links = append(links, fmt.Sprintf(":doc:`%s <%s>`", RightCase(tag), IndexPage(tag)))
	}
	return links
}

// RightCase title-cases text unless it is entirely upper-case, in which case
// it is taken to be an acronym and returned unchanged. The check covers the
// whole string, so acronyms embedded in longer tags are title-cased too.
func RightCase(text string) string {
	if text == strings.ToUpper(text) {
		return text
	}
	return cases.Title(language.Und).String(text)
}

func flatten(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
