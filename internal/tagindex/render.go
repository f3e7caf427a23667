package tagindex

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/itsmostafa/userdocs/internal/userdoc"
)

// NoIndexTag marks a grouping that is left out of every index page.
const NoIndexTag = "NOINDEX"

// ErrUnderlineDepth is returned when a hierarchy is deeper than the
// underline characters available to render its headings.
var ErrUnderlineDepth = errors.New("not enough underline characters for index depth")

// RenderOptions controls the header of generated index pages.
type RenderOptions struct {
	Title       string
	Description string
	Underlines  string // One character per heading level, outermost first
}

// DefaultRenderOptions returns the options used when nothing is configured.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Title: "Model directory",
		Description: "The model directory is organized and autogenerated by keywords. " +
			"Models that contain a specific keyword will be listed under that word.",
		Underlines: "=-~",
	}
}

// RenderIndex formats a hierarchy as a reStructuredText index page. current
// holds the tags the hierarchy was filtered by. When the hierarchy has a single
// top-level grouping its title is folded into the page title.
func RenderIndex(nodes []*Node, current []string, opts RenderOptions) (string, error) {
	underlines := []rune(opts.Underlines)
	if len(underlines) == 0 {
		return "", ErrUnderlineDepth
	}

	pageTitle := opts.Title
	if len(nodes) == 1 && len(current) > 0 {
		pageTitle += ": " + strings.Join(current, ", ")
	}

	// The orphan field keeps Sphinx from expecting the page in a toctree.
	output := []string{
		":orphan:\n\n" + pageTitle,
		strings.Repeat(string(underlines[0]), utf8.RuneCountInString(pageTitle)) + "\n",
		opts.Description + "\n",
	}
	if len(nodes) != 1 {
		underlines = underlines[1:]
	}

	body, err := renderLevel(nodes, underlines)
	if err != nil {
		return "", err
	}
	output = append(output, body)
	return strings.Join(output, "\n"), nil
}

func renderLevel(nodes []*Node, underlines []rune) (string, error) {
	sorted := make([]*Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key() < sorted[j].Key()
	})

	var output []string
	for _, n := range sorted {
		if n.HasTag(NoIndexTag) {
			continue
		}

		// A lone grouping is already named by the page title.
		if title := n.Key(); title != "" && len(nodes) != 1 {
			if len(underlines) == 0 {
				return "", fmt.Errorf("%w: heading %q", ErrUnderlineDepth, title)
			}
			output = append(output, heading(n, underlines[0]))
		}

		if !n.IsLeaf() {
			rest := underlines
			if len(rest) > 0 {
				rest = rest[1:]
			}
			child, err := renderLevel(n.Children, rest)
			if err != nil {
				return "", err
			}
			output = append(output, child)
			continue
		}

		docs := make([]string, len(n.Docs))
		copy(docs, n.Docs)
		sort.Strings(docs)
		for _, d := range docs {
			output = append(output, "* :doc:`"+userdoc.PageName(d)+"`")
		}
		output = append(output, "")
	}

	return strings.Join(output, "\n"), nil
}

func heading(n *Node, underline rune) string {
	title := fmt.Sprintf(":doc:`%s <%s>`", userdoc.RightCase(n.Key()), userdoc.IndexPage(n.Tags...))
	return title + "\n" + strings.Repeat(string(underline), utf8.RuneCountInString(title)) + "\n\n"
}
