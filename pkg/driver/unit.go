package driver

// Unit is a loaded compilation unit. Members are elaborated strictly in the
// order listed; a later member sees everything the earlier ones bound.
type Unit struct {
	Name    string
	Path    string
	Members []Member
}

// Member is either a source file, with its text already read, or a nested
// unit.
type Member struct {
	Path   string
	Source []byte
	Unit   *Unit
}

// IsUnit reports whether the member is a nested unit.
func (m Member) IsUnit() bool {
	return m.Unit != nil
}

// Source is an in-memory source file.
type Source struct {
	Path string
	Text string
}

// NewUnit builds an in-memory unit from sources, in order.
func NewUnit(name string, sources ...Source) *Unit {
	u := &Unit{Name: name}
	for _, src := range sources {
		u.Members = append(u.Members, Member{Path: src.Path, Source: []byte(src.Text)})
	}
	return u
}

// Files counts the source files of the unit, nested units included.
func (u *Unit) Files() int {
	n := 0
	for _, m := range u.Members {
		if m.IsUnit() {
			n += m.Unit.Files()
			continue
		}
		n++
	}
	return n
}
