package userdoc

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// width measures titles independently of the terminal locale.
var width = &runewidth.Condition{StrictEmojiNeutral: true}

// adornments are the characters reStructuredText accepts for section underlines.
const adornments = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Section is a titled span of a document body. Its content runs from End to
// the Start of the next section, or to the end of the text.
type Section struct {
	Title     string
	Underline rune
	Start     int // Offset of the title line
	End       int // Offset just past the underline, before its line break
}

// Sections scans text for section titles: any non-blank line followed directly
// by a line made of one repeated adornment character. A title whose width
// differs from its underline is still a section, but is reported on log.
func Sections(text string, log *slog.Logger) []Section {
	log = orDefault(log)
	lines := strings.SplitAfter(text, "\n")

	var sections []Section
	offset := 0
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i+1 >= len(lines) {
			break
		}

		title := strings.TrimRight(line, " \t\r\n")
		underline := strings.TrimRight(lines[i+1], "\r\n")
		char, ok := adornment(underline)
		if strings.TrimSpace(title) == "" || !ok {
			offset += len(line)
			continue
		}
		// An overline is not a title of its own.
		if _, isAdornment := adornment(title); isAdornment {
			offset += len(line)
			continue
		}

		s := Section{
			Title:     title,
			Underline: char,
			Start:     offset,
			End:       offset + len(line) + len(underline),
		}
		log.Debug("section title", "title", title, "start", s.Start, "end", s.End)

		titleWidth := width.StringWidth(title)
		underlineLen := utf8.RuneCountInString(underline)
		if titleWidth != underlineLen {
			log.Warn("length of section title does not match length of underline",
				"title", title, "title_len", titleWidth, "underline_len", underlineLen)
		}

		sections = append(sections, s)
		offset += len(line) + len(lines[i+1])
		i++
	}

	return sections
}

// adornment reports whether s consists of a single repeated adornment
// character, and which one.
func adornment(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !strings.ContainsRune(adornments, first) {
		return 0, false
	}
	for _, r := range s {
		if r != first {
			return 0, false
		}
	}
	return first, true
}

// findSection returns the first section titled title and the offset where
// its content ends.
func findSection(sections []Section, title string, textLen int) (Section, int, bool) {
	for i, s := range sections {
		if s.Title != title {
			continue
		}
		end := textLen
		if i+1 < len(sections) {
			end = sections[i+1].Start
		}
		return s, end, true
	}
	return Section{}, 0, false
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
