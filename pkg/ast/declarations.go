package ast

type ValueBinding struct {
	Pattern Pattern    `json:"pattern"`
	Value   Expression `json:"value"`
}

type ValDeclaration struct {
	nodeImpl
	declarationMarker

	TyVars   []string       `json:"tyVars,omitempty"`
	Rec      bool           `json:"rec,omitempty"`
	Bindings []ValueBinding `json:"bindings"`
}

func NewValDeclaration(tyVars []string, rec bool, bindings []ValueBinding) *ValDeclaration {
	return &ValDeclaration{nodeImpl: newNodeImpl(NodeValDeclaration), TyVars: tyVars, Rec: rec, Bindings: bindings}
}

type FunClause struct {
	Params     []Pattern      `json:"params"`
	ReturnType TypeExpression `json:"returnType,omitempty"`
	Body       Expression     `json:"body"`
	Span       Span           `json:"span"`
}

type FunBinding struct {
	Name    string      `json:"name"`
	Clauses []FunClause `json:"clauses"`
	Span    Span        `json:"span"`
}

type FunDeclaration struct {
	nodeImpl
	declarationMarker

	TyVars   []string     `json:"tyVars,omitempty"`
	Bindings []FunBinding `json:"bindings"`
}

func NewFunDeclaration(tyVars []string, bindings []FunBinding) *FunDeclaration {
	return &FunDeclaration{nodeImpl: newNodeImpl(NodeFunDeclaration), TyVars: tyVars, Bindings: bindings}
}

type TypeBinding struct {
	TyVars []string       `json:"tyVars,omitempty"`
	Name   string         `json:"name"`
	Type   TypeExpression `json:"type"`
}

type TypeDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []TypeBinding `json:"bindings"`
}

func NewTypeDeclaration(bindings []TypeBinding) *TypeDeclaration {
	return &TypeDeclaration{nodeImpl: newNodeImpl(NodeTypeDeclaration), Bindings: bindings}
}

type ConBinding struct {
	Name     string         `json:"name"`
	Argument TypeExpression `json:"argument,omitempty"`
	Span     Span           `json:"span"`
}

type DatatypeBinding struct {
	TyVars       []string     `json:"tyVars,omitempty"`
	Name         string       `json:"name"`
	Constructors []ConBinding `json:"constructors"`
	Span         Span         `json:"span"`
}

type DatatypeDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []DatatypeBinding `json:"bindings"`
	WithType []TypeBinding     `json:"withType,omitempty"`
}

func NewDatatypeDeclaration(bindings []DatatypeBinding, withType []TypeBinding) *DatatypeDeclaration {
	return &DatatypeDeclaration{nodeImpl: newNodeImpl(NodeDatatypeDeclaration), Bindings: bindings, WithType: withType}
}

// DatatypeCopyDeclaration is `datatype t = datatype Path.u`.
type DatatypeCopyDeclaration struct {
	nodeImpl
	declarationMarker

	Name   string    `json:"name"`
	Source LongIdent `json:"source"`
}

func NewDatatypeCopyDeclaration(name string, source LongIdent) *DatatypeCopyDeclaration {
	return &DatatypeCopyDeclaration{nodeImpl: newNodeImpl(NodeDatatypeCopyDeclaration), Name: name, Source: source}
}

type ExceptionBinding struct {
	Name     string         `json:"name"`
	Argument TypeExpression `json:"argument,omitempty"`
	CopyOf   *LongIdent     `json:"copyOf,omitempty"`
	Span     Span           `json:"span"`
}

type ExceptionDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []ExceptionBinding `json:"bindings"`
}

func NewExceptionDeclaration(bindings []ExceptionBinding) *ExceptionDeclaration {
	return &ExceptionDeclaration{nodeImpl: newNodeImpl(NodeExceptionDeclaration), Bindings: bindings}
}

type LocalDeclaration struct {
	nodeImpl
	declarationMarker

	Locals []Declaration `json:"locals"`
	Body   []Declaration `json:"body"`
}

func NewLocalDeclaration(locals, body []Declaration) *LocalDeclaration {
	return &LocalDeclaration{nodeImpl: newNodeImpl(NodeLocalDeclaration), Locals: locals, Body: body}
}

type OpenDeclaration struct {
	nodeImpl
	declarationMarker

	Structures []LongIdent `json:"structures"`
}

func NewOpenDeclaration(paths []LongIdent) *OpenDeclaration {
	return &OpenDeclaration{nodeImpl: newNodeImpl(NodeOpenDeclaration), Structures: paths}
}

type FixityKind string

const (
	FixityInfix  FixityKind = "infix"
	FixityInfixr FixityKind = "infixr"
	FixityNonfix FixityKind = "nonfix"
)

type FixityDeclaration struct {
	nodeImpl
	declarationMarker

	Kind       FixityKind `json:"kind"`
	Precedence int        `json:"precedence"`
	Names      []string   `json:"names"`
}

func NewFixityDeclaration(kind FixityKind, prec int, names []string) *FixityDeclaration {
	return &FixityDeclaration{nodeImpl: newNodeImpl(NodeFixityDeclaration), Kind: kind, Precedence: prec, Names: names}
}
