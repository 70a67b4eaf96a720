package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnitCycle reports a unit that includes itself, directly or not.
	ErrUnitCycle = errors.New("unit cycle")
	// ErrUnresolvedAlias reports a member path still holding a $ alias.
	ErrUnresolvedAlias = errors.New("unresolved path alias")
)

// Loader reads unit descriptions and materialises their members.
type Loader struct {
	fsys fs.FS
}

// NewLoader constructs a loader reading from the operating system.
func NewLoader() *Loader {
	return &Loader{}
}

// NewFSLoader constructs a loader reading from fsys. Paths are slash
// separated and relative to the root of fsys.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadUnit reads the description at path and every member it lists.
// Source text is normalised to NFC. Nested descriptions are loaded
// recursively.
func (l *Loader) LoadUnit(path string) (*Unit, error) {
	if path == "" {
		return nil, fmt.Errorf("loader: empty unit path")
	}
	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return l.loadUnit(resolved, nil)
}

func (l *Loader) loadUnit(path string, stack []string) (*Unit, error) {
	for i, seen := range stack {
		if seen == path {
			chain := append(append([]string{}, stack[i:]...), path)
			return nil, fmt.Errorf("loader: %s: %w", strings.Join(chain, " -> "), ErrUnitCycle)
		}
	}
	stack = append(stack, path)

	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	desc, err := ParseDescription(path, data)
	if err != nil {
		return nil, err
	}
	unit := &Unit{Name: desc.Name, Path: path}
	dir := l.dir(path)
	for _, member := range desc.Members {
		if strings.Contains(member, "$") {
			return nil, fmt.Errorf("loader: %s: member %s: %w", path, member, ErrUnresolvedAlias)
		}
		memberPath := l.join(dir, member)
		if IsDescriptionPath(member) {
			nested, err := l.loadUnit(memberPath, stack)
			if err != nil {
				return nil, err
			}
			unit.Members = append(unit.Members, Member{Path: memberPath, Unit: nested})
			continue
		}
		src, err := l.readFile(memberPath)
		if err != nil {
			return nil, fmt.Errorf("loader: read member %s of %s: %w", member, path, err)
		}
		unit.Members = append(unit.Members, Member{Path: memberPath, Source: norm.NFC.Bytes(src)})
	}
	return unit, nil
}

// LoadFiles builds a unit named name from loose source files, in the order
// given.
func (l *Loader) LoadFiles(name string, paths ...string) (*Unit, error) {
	unit := &Unit{Name: name}
	for _, path := range paths {
		resolved, err := l.resolve(path)
		if err != nil {
			return nil, err
		}
		src, err := l.readFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}
		unit.Members = append(unit.Members, Member{Path: resolved, Source: norm.NFC.Bytes(src)})
	}
	return unit, nil
}

func (l *Loader) resolve(path string) (string, error) {
	if l.fsys != nil {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	return abs, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, path)
	}
	return os.ReadFile(path)
}

func (l *Loader) dir(path string) string {
	if l.fsys != nil {
		return filepath.ToSlash(filepath.Dir(path))
	}
	return filepath.Dir(path)
}

func (l *Loader) join(dir, member string) string {
	if l.fsys != nil {
		return filepath.ToSlash(filepath.Join(dir, member))
	}
	if filepath.IsAbs(member) {
		return filepath.Clean(member)
	}
	return filepath.Join(dir, filepath.FromSlash(member))
}
