package ast

import "strconv"

// TupleLabel returns the record label of the i-th (0-based) tuple component.
func TupleLabel(i int) string {
	return strconv.Itoa(i + 1)
}

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

type SConPattern struct {
	nodeImpl
	patternMarker

	Kind SConKind `json:"kind"`
	Text string   `json:"text"`
}

func NewSConPattern(kind SConKind, text string) *SConPattern {
	return &SConPattern{nodeImpl: newNodeImpl(NodeSConPattern), Kind: kind, Text: text}
}

// VarPattern is an identifier pattern; whether it binds a variable or matches
// a nullary constructor depends on the environment.
type VarPattern struct {
	nodeImpl
	patternMarker

	Path LongIdent `json:"path"`
	Op   bool      `json:"op,omitempty"`
}

func NewVarPattern(path LongIdent) *VarPattern {
	return &VarPattern{nodeImpl: newNodeImpl(NodeVarPattern), Path: path}
}

type ConPattern struct {
	nodeImpl
	patternMarker

	Constructor LongIdent `json:"constructor"`
	Argument    Pattern   `json:"argument"`
}

func NewConPattern(con LongIdent, arg Pattern) *ConPattern {
	return &ConPattern{nodeImpl: newNodeImpl(NodeConPattern), Constructor: con, Argument: arg}
}

type PatternField struct {
	Label   string  `json:"label"`
	Pattern Pattern `json:"pattern"`
}

// RecordPattern also represents tuple and unit patterns. Flexible is set for
// `{a, ...}` patterns.
type RecordPattern struct {
	nodeImpl
	patternMarker

	Fields   []PatternField `json:"fields"`
	Flexible bool           `json:"flexible,omitempty"`
}

func NewRecordPattern(fields []PatternField, flexible bool) *RecordPattern {
	return &RecordPattern{nodeImpl: newNodeImpl(NodeRecordPattern), Fields: fields, Flexible: flexible}
}

func NewTuplePattern(elements []Pattern) *RecordPattern {
	fields := make([]PatternField, len(elements))
	for i, el := range elements {
		fields[i] = PatternField{Label: TupleLabel(i), Pattern: el}
	}
	return NewRecordPattern(fields, false)
}

type ListPattern struct {
	nodeImpl
	patternMarker

	Elements []Pattern `json:"elements"`
}

func NewListPattern(elements []Pattern) *ListPattern {
	return &ListPattern{nodeImpl: newNodeImpl(NodeListPattern), Elements: elements}
}

// InfixPattern is an infix constructor application such as x :: xs.
type InfixPattern struct {
	nodeImpl
	patternMarker

	Constructor LongIdent `json:"constructor"`
	Left        Pattern   `json:"left"`
	Right       Pattern   `json:"right"`
}

func NewInfixPattern(con LongIdent, left, right Pattern) *InfixPattern {
	return &InfixPattern{nodeImpl: newNodeImpl(NodeInfixPattern), Constructor: con, Left: left, Right: right}
}

type TypedPattern struct {
	nodeImpl
	patternMarker

	Pattern Pattern        `json:"pattern"`
	Type    TypeExpression `json:"typeAnnotation"`
}

func NewTypedPattern(pat Pattern, ty TypeExpression) *TypedPattern {
	return &TypedPattern{nodeImpl: newNodeImpl(NodeTypedPattern), Pattern: pat, Type: ty}
}

type AsPattern struct {
	nodeImpl
	patternMarker

	Name    string         `json:"name"`
	Type    TypeExpression `json:"typeAnnotation,omitempty"`
	Pattern Pattern        `json:"pattern"`
}

func NewAsPattern(name string, ty TypeExpression, pat Pattern) *AsPattern {
	return &AsPattern{nodeImpl: newNodeImpl(NodeAsPattern), Name: name, Type: ty, Pattern: pat}
}
