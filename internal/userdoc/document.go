package userdoc

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

var (
	// ErrNoUserDocs is returned when a file carries no BeginUserDocs/EndUserDocs block.
	ErrNoUserDocs = errors.New("no user documentation found")

	// ErrDecode is returned when a file cannot be read as UTF-8 text.
	ErrDecode = errors.New("not a UTF-8 text file")
)

// userDocPattern matches the first documentation block. The tag list is
// everything after the optional colon up to the end of the marker line.
var userDocPattern = regexp.MustCompile(`BeginUserDocs(?:[ \t]*:)?[ \t]*([^\n]*)(?:\r?\n)+((?s:.*?))EndUserDocs`)

// Document is the user documentation extracted from one source file.
type Document struct {
	Path string   `json:"path"` // Source path relative to the scan root
	Tags []string `json:"tags"` // Keywords in declaration order, possibly with empty entries
	Text string   `json:"text"` // Documentation body
}

// Extract locates the documentation block in content and returns its tags,
// each trimmed of surrounding whitespace, and the raw body text.
// An empty or missing tag line yields a single empty tag.
func Extract(content string) ([]string, string, error) {
	m := userDocPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, "", ErrNoUserDocs
	}

	raw := strings.Split(m[1], ",")
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		tags = append(tags, strings.TrimSpace(t))
	}
	return tags, m[2], nil
}

// Parse builds a Document from the contents of the file at path.
func Parse(path string, data []byte) (Document, error) {
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s", ErrDecode, path)
	}

	tags, body, err := Extract(string(data))
	if err != nil {
		return Document{}, fmt.Errorf("%w in %s", err, path)
	}

	return Document{Path: path, Tags: tags, Text: body}, nil
}

// Load reads root/path from fs and parses it. The returned document is
// identified by path.
func Load(fs afero.Fs, root, path string) (Document, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, path))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// PageName returns the name of the page generated for the document.
func (d Document) PageName() string {
	return PageName(d.Path)
}

// CleanTags returns the distinct valid tags of the document in declaration
// order.
func (d Document) CleanTags() []string {
	seen := make(map[string]bool, len(d.Tags))
	var tags []string
	for _, t := range d.Tags {
		t = strings.TrimSpace(t)
		if !ValidTag(t) || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// WithText returns a copy of the document with its body replaced.
func (d Document) WithText(text string) Document {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	return Document{Path: d.Path, Tags: tags, Text: text}
}

// ValidTag reports whether tag is non-blank and can name an index page: it
// holds no path separator and no "..".
func ValidTag(tag string) bool {
	if strings.TrimSpace(tag) == "" {
		return false
	}
	return !strings.ContainsAny(tag, `/\`) && !strings.Contains(tag, "..")
}

// PageName strips the directory and extension from a document path.
func PageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IndexPage names the index page for a combination of tags, e.g.
// "index" for none and "index_adaptive_neuron" for two tags.
func IndexPage(tags ...string) string {
	var b strings.Builder
	b.WriteString("index")
	for _, t := range tags {
		b.WriteString("_")
		b.WriteString(t)
	}
	return b.String()
}
