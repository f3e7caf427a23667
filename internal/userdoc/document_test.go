package userdoc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

const scenarioSource = "/* BeginUserDocs: foo, bar\n" +
	"Short description\n+++++++++++++++++\nHello world\n\n" +
	"See also\n++++++++\nold text\n\n" +
	"EndUserDocs */\n"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantTags []string
		wantBody string
	}{
		{
			name:     "tags and body",
			content:  scenarioSource,
			wantTags: []string{"foo", "bar"},
			wantBody: "Short description\n+++++++++++++++++\nHello world\n\nSee also\n++++++++\nold text\n\n",
		},
		{
			name:     "multi-word tags keep their spaces",
			content:  "# BeginUserDocs: spiking neuron ,  GPU\nbody\nEndUserDocs",
			wantTags: []string{"spiking neuron", "GPU"},
			wantBody: "body\n",
		},
		{
			name:     "no colon and no tags",
			content:  "BeginUserDocs\n\n\nbody\nEndUserDocs",
			wantTags: []string{""},
			wantBody: "body\n",
		},
		{
			name:     "empty tag entries are kept",
			content:  "BeginUserDocs: a,,b\nx\nEndUserDocs",
			wantTags: []string{"a", "", "b"},
			wantBody: "x\n",
		},
		{
			name:     "first block wins",
			content:  "BeginUserDocs: one\nfirst\nEndUserDocs\nBeginUserDocs: two\nsecond\nEndUserDocs",
			wantTags: []string{"one"},
			wantBody: "first\n",
		},
		{
			name:     "windows line endings",
			content:  "BeginUserDocs: a\r\n\r\nbody\r\nEndUserDocs",
			wantTags: []string{"a"},
			wantBody: "body\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, body, err := Extract(tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tags, tt.wantTags) {
				t.Errorf("tags = %q, want %q", tags, tt.wantTags)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestExtractNoUserDocs(t *testing.T) {
	for _, content := range []string{
		"",
		"int main() { return 0; }",
		"BeginUserDocs: a\nno end marker",
		"EndUserDocs before BeginUserDocs",
	} {
		if _, _, err := Extract(content); !errors.Is(err, ErrNoUserDocs) {
			t.Errorf("Extract(%q) error = %v, want ErrNoUserDocs", content, err)
		}
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc, err := Parse("models/greeter.h", []byte(scenarioSource))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Path != "models/greeter.h" {
			t.Errorf("expected path %q, got %q", "models/greeter.h", doc.Path)
		}
		if doc.PageName() != "greeter" {
			t.Errorf("expected page name %q, got %q", "greeter", doc.PageName())
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := Parse("blob.h", []byte{'B', 0xff, 0xfe, '\n'})
		if !errors.Is(err, ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})

	t.Run("no docs names the file", func(t *testing.T) {
		_, err := Parse("plain.h", []byte("nothing here"))
		if !errors.Is(err, ErrNoUserDocs) {
			t.Fatalf("expected ErrNoUserDocs, got %v", err)
		}
		if got := err.Error(); got != "no user documentation found in plain.h" {
			t.Errorf("unexpected message %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/src/models/greeter.h", []byte(scenarioSource), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(fs, "/src", "models/greeter.h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(doc.Tags, []string{"foo", "bar"}) {
		t.Errorf("unexpected tags %q", doc.Tags)
	}

	if _, err := Load(fs, "/src", "missing.h"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCleanTags(t *testing.T) {
	doc := Document{Tags: []string{"b", "", " a ", "b", "  "}}
	got := doc.CleanTags()
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanTags() = %q, want %q", got, want)
	}
}

func TestCleanTagsDropsPathTags(t *testing.T) {
	doc := Document{Tags: []string{"input/output", "neuron", `a\b`, "..", "integrate-and-fire"}}
	got := doc.CleanTags()
	want := []string{"neuron", "integrate-and-fire"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanTags() = %q, want %q", got, want)
	}
}

func TestValidTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"neuron", true},
		{"spiking neuron", true},
		{"rate-based", true},
		{"", false},
		{"   ", false},
		{"input/output", false},
		{`a\b`, false},
		{"..", false},
		{"v1..2", false},
	}
	for _, tt := range tests {
		if got := ValidTag(tt.tag); got != tt.want {
			t.Errorf("ValidTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestWithTextCopies(t *testing.T) {
	doc := Document{Path: "a.h", Tags: []string{"x"}, Text: "old"}
	next := doc.WithText("new")
	next.Tags[0] = "y"

	if doc.Text != "old" || doc.Tags[0] != "x" {
		t.Errorf("original document was modified: %+v", doc)
	}
	if next.Text != "new" || next.Path != "a.h" {
		t.Errorf("unexpected copy: %+v", next)
	}
}

func TestIndexPage(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, "index"},
		{[]string{"neuron"}, "index_neuron"},
		{[]string{"adaptive", "neuron"}, "index_adaptive_neuron"},
	}
	for _, tt := range tests {
		if got := IndexPage(tt.tags...); got != tt.want {
			t.Errorf("IndexPage(%q) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}
