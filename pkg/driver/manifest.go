package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the project file looked up by the CLI.
const ManifestName = "plc.yml"

// Manifest represents the parsed contents of plc.yml.
type Manifest struct {
	Path    string
	Dir     string
	Name    string
	Version string
	Authors []string
	Entry   string
	Output  string
	Stamp   bool
	Analyze bool
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses plc.yml from disk, returning a validated manifest.
// Entry and Output are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from dir until it finds plc.yml.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

// Owns reports whether path names the manifest's entry file. Settings such as
// analyze and output apply only to that file.
func (m *Manifest) Owns(path string) bool {
	if m == nil {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && filepath.Clean(abs) == m.Entry
}

// HeaderLines describes the project for the header of generated code.
func (m *Manifest) HeaderLines() []string {
	if m == nil {
		return nil
	}
	project := "project " + m.Name
	if m.Version != "" {
		project += " " + m.Version
	}
	lines := []string{project}
	if len(m.Authors) > 0 {
		lines = append(lines, "authors: "+strings.Join(m.Authors, ", "))
	}
	return lines
}

var ErrManifestNotFound = errors.New("manifest: no " + ManifestName + " found")

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	} else if !namePattern.MatchString(m.Name) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("name %q must be an identifier", m.Name))
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("invalid version %q", m.Version))
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	} else if filepath.Ext(m.Entry) != ".plc" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a .plc file", filepath.Base(m.Entry)))
	}
	if filepath.Ext(m.Output) != ".java" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("output %q must be a .java file", filepath.Base(m.Output)))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type manifestFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Authors stringList `yaml:"authors"`
	Entry   string     `yaml:"entry"`
	Output  string     `yaml:"output"`
	Stamp   bool       `yaml:"stamp"`
	Analyze *bool      `yaml:"analyze"`
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	dir := filepath.Dir(path)
	result := &Manifest{
		Path:    path,
		Dir:     dir,
		Name:    strings.TrimSpace(mf.Name),
		Version: strings.TrimSpace(mf.Version),
		Authors: mf.Authors.Clone(),
		Stamp:   mf.Stamp,
		Analyze: mf.Analyze == nil || *mf.Analyze,
	}
	if entry := strings.TrimSpace(mf.Entry); entry != "" {
		result.Entry = resolve(dir, entry)
	}
	output := strings.TrimSpace(mf.Output)
	if output == "" {
		output = "Main.java"
	}
	result.Output = resolve(dir, output)
	return result
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, filepath.FromSlash(path))
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

// UnmarshalYAML accepts either a single string or a sequence of strings.
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
