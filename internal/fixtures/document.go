// Package fixtures imports page trees from a directory of markdown files
// with YAML front matter.
package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block of a fixture file.
type FrontMatter struct {
	Title     string            `yaml:"title"`
	Slug      string            `yaml:"slug"`
	Published *bool             `yaml:"published"`
	Draft     bool              `yaml:"draft"`
	Homepage  bool              `yaml:"homepage"`
	Styles    map[string]string `yaml:"styles"`
	// Content holds a JSON widget tree. When set it replaces the markdown
	// body.
	Content string `yaml:"content"`
}

// Document is one parsed fixture file.
type Document struct {
	// File is the source path inside the fixture filesystem.
	File string
	// Path is the page full path, e.g. "about/team".
	Path string
	// Parent is the full path of the parent page, empty for root pages.
	Parent string
	Slug   string
	Meta   FrontMatter
	Body   []byte
}

// IsPublished reports the effective publish flag. Pages publish by default.
func (d *Document) IsPublished() bool {
	if d.Meta.Draft {
		return false
	}
	if d.Meta.Published != nil {
		return *d.Meta.Published
	}
	return true
}

// Title returns the front matter title or one derived from the slug.
func (d *Document) Title() string {
	if title := strings.TrimSpace(d.Meta.Title); title != "" {
		return title
	}
	words := strings.Fields(strings.ReplaceAll(d.Slug, "-", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// ParseDocument reads front matter and body from source. file is the path
// relative to the fixture root; "index.md" names its directory page and the
// root index becomes "home".
func ParseDocument(file string, source []byte) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", file, err)
	}

	clean := strings.TrimSuffix(path.Clean(strings.TrimPrefix(file, "/")), path.Ext(file))
	dir, name := path.Split(clean)
	dir = strings.Trim(dir, "/")
	if name == "index" {
		if dir == "" {
			name = "home"
		} else {
			dir, name = path.Split(dir)
			dir = strings.Trim(dir, "/")
		}
	}
	slugValue := strings.ToLower(strings.TrimSpace(meta.Slug))
	if slugValue == "" {
		slugValue = strings.ToLower(name)
	}
	full := slugValue
	if dir != "" {
		full = strings.ToLower(dir) + "/" + slugValue
	}
	return &Document{
		File:   file,
		Path:   full,
		Parent: strings.ToLower(dir),
		Slug:   slugValue,
		Meta:   meta,
		Body:   bytes.TrimSpace(body),
	}, nil
}

// LoadDir parses every *.md file under fsys. Documents are ordered so that
// parents precede their children.
func LoadDir(ctx context.Context, fsys fs.FS) ([]*Document, error) {
	var docs []*Document
	err := fs.WalkDir(fsys, ".", func(file string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() || path.Ext(file) != ".md" {
			return nil
		}
		source, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("fixtures: read %s: %w", file, err)
		}
		doc, err := ParseDocument(file, source)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		di, dj := strings.Count(docs[i].Path, "/"), strings.Count(docs[j].Path, "/")
		if di != dj {
			return di < dj
		}
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}
