package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

// LoadWithSources loads the config at DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	var top layer
	switch _, err := os.Stat(path); {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		l := &loader{seen: make(map[string]bool)}
		if top, err = l.load(path); err != nil {
			return nil, err
		}
	}
	if top.sources == nil {
		top.sources = map[string]Source{}
	}

	cfg := BuildEffectiveConfig(top.raw)
	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if src, ok := top.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}
	return &LoadResult{Config: cfg, Sources: top.sources, Files: top.files}, nil
}

// layer is one file merged over everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// over merges next on top of l.
func (l layer) over(next layer) layer {
	out := layer{
		raw:     l.raw.merge(next.raw),
		sources: make(map[string]Source, len(l.sources)+len(next.sources)),
		files:   append(slices.Clip(l.files), next.files...),
	}
	for k, v := range l.sources {
		out.sources[k] = v
	}
	for k, v := range next.sources {
		out.sources[k] = v
	}
	return out
}

// loader follows includes depth first. A file reached twice is merged once;
// a file reached from itself is an error.
type loader struct {
	seen  map[string]bool
	stack []string
}

func (ld *loader) load(path string) (layer, error) {
	file, err := filepath.Abs(path)
	if err != nil {
		return layer{}, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(file); err == nil {
		file = real
	}
	if slices.Contains(ld.stack, file) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(ld.stack, " -> "), file)
	}
	if ld.seen[file] {
		return layer{}, nil
	}
	ld.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	own := layer{sources: map[string]Source{}}
	if err := decodeStrict(data, &own.raw); err != nil {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}
	root := documentRoot(&doc)
	walkSources(root, file, "", own.sources)

	ld.stack = append(ld.stack, file)
	defer func() { ld.stack = ld.stack[:len(ld.stack)-1] }()

	var merged layer
	for _, inc := range includeNodes(root) {
		paths, err := includePaths(file, inc.Value)
		if err != nil {
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", file, inc.Line, inc.Column, inc.Value, err)
		}
		for _, p := range paths {
			sub, err := ld.load(p)
			if err != nil {
				return layer{}, err
			}
			merged = merged.over(sub)
		}
	}

	// The including file wins over what it includes.
	own.files = []string{file}
	return merged.over(own), nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// includePaths resolves an include entry against the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func includePaths(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(include, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc != nil && doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func fileSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// walkSources records the position of every mapping value by dotted path.
// Sequences are recorded as a whole.
func walkSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = fileSource(file, val)
		walkSources(val, file, key, out)
	}
}

// includeNodes returns the scalar entries of the top-level include key,
// which may be a single path or a list.
func includeNodes(root *yaml.Node) []*yaml.Node {
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []*yaml.Node{val}
		case yaml.SequenceNode:
			var out []*yaml.Node
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					out = append(out, item)
				}
			}
			return out
		}
		return nil
	}
	return nil
}
