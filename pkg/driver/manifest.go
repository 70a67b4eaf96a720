package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Description is a parsed compilation-unit description: a name and the
// members in the order they are listed.
type Description struct {
	Path    string
	Name    string
	Members []string
}

// ValidationError aggregates description validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "unit: invalid description"
	}
	var b strings.Builder
	b.WriteString("unit: ")
	b.WriteString(e.Path)
	b.WriteString(" is invalid:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type descriptionFile struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// IsDescriptionPath reports whether path names a unit description rather
// than a source file.
func IsDescriptionPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cm", ".yml", ".yaml":
		return true
	}
	return false
}

// ParseDescription parses a unit description. Files ending in .cm use the
// CM group syntax; everything else is YAML.
func ParseDescription(path string, data []byte) (*Description, error) {
	var (
		desc *Description
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".cm") {
		desc, err = parseCM(path, data)
	} else {
		desc, err = parseYAMLDescription(path, data)
	}
	if err != nil {
		return nil, err
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

func parseYAMLDescription(path string, data []byte) (*Description, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var raw descriptionFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unit: %s is empty", path)
		}
		return nil, fmt.Errorf("unit: parse %s: %w", path, err)
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = defaultUnitName(path)
	}
	members := make([]string, len(raw.Members))
	for i, m := range raw.Members {
		members[i] = strings.TrimSpace(m)
	}
	return &Description{Path: path, Name: name, Members: members}, nil
}

// parseCM reads `Group is a.sml b.cm` and `Library <exports> is ...`. Export
// lists are skipped; members follow the `is` keyword.
func parseCM(path string, data []byte) (*Description, error) {
	words, err := cmWords(string(data))
	if err != nil {
		return nil, fmt.Errorf("unit: parse %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("unit: %s is empty", path)
	}
	switch strings.ToLower(words[0]) {
	case "group", "library":
	default:
		return nil, fmt.Errorf("unit: parse %s: expected Group or Library, found %q", path, words[0])
	}
	is := -1
	for i, w := range words {
		if w == "is" {
			is = i
			break
		}
	}
	if is < 0 {
		return nil, fmt.Errorf("unit: parse %s: missing `is`", path)
	}
	members, err := cmMembers(words[is+1:])
	if err != nil {
		return nil, fmt.Errorf("unit: parse %s: %w", path, err)
	}
	return &Description{Path: path, Name: defaultUnitName(path), Members: members}, nil
}

// cmMembers drops the class annotation a member may carry, as in
// `foo.sml : sml` or `foo.sml :sml`.
func cmMembers(words []string) ([]string, error) {
	var members []string
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case w == ":":
			if len(members) == 0 || i+1 >= len(words) {
				return nil, errors.New("misplaced member class")
			}
			i++
		case strings.HasPrefix(w, ":"):
			if len(members) == 0 {
				return nil, errors.New("misplaced member class")
			}
		default:
			members = append(members, w)
		}
	}
	return members, nil
}

// cmWords splits CM text into words, dropping (* ... *) comments, which
// nest, and ; line comments.
func cmWords(text string) ([]string, error) {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '(' && i+1 < len(text) && text[i+1] == '*':
			flush()
			depth++
			i++
		case depth > 0 && ch == '*' && i+1 < len(text) && text[i+1] == ')':
			depth--
			i++
		case depth > 0:
		case ch == ';':
			flush()
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	if depth > 0 {
		return nil, errors.New("unclosed comment")
	}
	flush()
	return words, nil
}

func (d *Description) validate() error {
	errs := ValidationError{Path: d.Path}
	seen := make(map[string]bool, len(d.Members))
	for i, m := range d.Members {
		switch {
		case m == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("members[%d] must be a non-empty path", i))
		case seen[m]:
			errs.Issues = append(errs.Issues, fmt.Sprintf("members[%d] duplicates %s", i, m))
		}
		seen[m] = true
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func defaultUnitName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".unit.yml", ".unit.yaml", ".yml", ".yaml", ".cm"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
