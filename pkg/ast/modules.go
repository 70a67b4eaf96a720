package ast

// Ascription constrains a structure expression by a signature.
type Ascription struct {
	Opaque    bool          `json:"opaque,omitempty"`
	Signature SigExpression `json:"signature"`
}

type StructureBinding struct {
	Name       string        `json:"name"`
	Ascription *Ascription   `json:"ascription,omitempty"`
	Body       StrExpression `json:"body"`
	Span       Span          `json:"span"`
}

type StructureDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []StructureBinding `json:"bindings"`
}

func NewStructureDeclaration(bindings []StructureBinding) *StructureDeclaration {
	return &StructureDeclaration{nodeImpl: newNodeImpl(NodeStructureDeclaration), Bindings: bindings}
}

type SignatureBinding struct {
	Name      string        `json:"name"`
	Signature SigExpression `json:"signature"`
	Span      Span          `json:"span"`
}

type SignatureDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []SignatureBinding `json:"bindings"`
}

func NewSignatureDeclaration(bindings []SignatureBinding) *SignatureDeclaration {
	return &SignatureDeclaration{nodeImpl: newNodeImpl(NodeSignatureDeclaration), Bindings: bindings}
}

type FunctorBinding struct {
	Name           string        `json:"name"`
	ParamName      string        `json:"paramName"`
	ParamSignature SigExpression `json:"paramSignature"`
	Result         *Ascription   `json:"result,omitempty"`
	Body           StrExpression `json:"body"`
	Span           Span          `json:"span"`
}

type FunctorDeclaration struct {
	nodeImpl
	declarationMarker

	Bindings []FunctorBinding `json:"bindings"`
}

func NewFunctorDeclaration(bindings []FunctorBinding) *FunctorDeclaration {
	return &FunctorDeclaration{nodeImpl: newNodeImpl(NodeFunctorDeclaration), Bindings: bindings}
}

// Structure expressions.

type StructExpression struct {
	nodeImpl
	strExpressionMarker

	Declarations []Declaration `json:"declarations"`
}

func NewStructExpression(decls []Declaration) *StructExpression {
	return &StructExpression{nodeImpl: newNodeImpl(NodeStructExpression), Declarations: decls}
}

type PathStrExpression struct {
	nodeImpl
	strExpressionMarker

	Path LongIdent `json:"path"`
}

func NewPathStrExpression(path LongIdent) *PathStrExpression {
	return &PathStrExpression{nodeImpl: newNodeImpl(NodePathStrExpression), Path: path}
}

type AscriptionExpression struct {
	nodeImpl
	strExpressionMarker

	Body       StrExpression `json:"body"`
	Ascription Ascription    `json:"ascription"`
}

func NewAscriptionExpression(body StrExpression, asc Ascription) *AscriptionExpression {
	return &AscriptionExpression{nodeImpl: newNodeImpl(NodeAscriptionExpression), Body: body, Ascription: asc}
}

type FunctorApplication struct {
	nodeImpl
	strExpressionMarker

	Functor  string        `json:"functor"`
	Argument StrExpression `json:"argument"`
}

func NewFunctorApplication(functor string, arg StrExpression) *FunctorApplication {
	return &FunctorApplication{nodeImpl: newNodeImpl(NodeFunctorApplication), Functor: functor, Argument: arg}
}

type LetStrExpression struct {
	nodeImpl
	strExpressionMarker

	Declarations []Declaration `json:"declarations"`
	Body         StrExpression `json:"body"`
}

func NewLetStrExpression(decls []Declaration, body StrExpression) *LetStrExpression {
	return &LetStrExpression{nodeImpl: newNodeImpl(NodeLetStrExpression), Declarations: decls, Body: body}
}

// Signature expressions.

type SigExpr struct {
	nodeImpl
	sigExpressionMarker

	Specs []Spec `json:"specs"`
}

func NewSigExpr(specs []Spec) *SigExpr {
	return &SigExpr{nodeImpl: newNodeImpl(NodeSigExpression), Specs: specs}
}

type NamedSigExpression struct {
	nodeImpl
	sigExpressionMarker

	Name string `json:"name"`
}

func NewNamedSigExpression(name string) *NamedSigExpression {
	return &NamedSigExpression{nodeImpl: newNodeImpl(NodeNamedSigExpression), Name: name}
}

// WhereTypeSigExpression is `sig where type 'a t = ty`.
type WhereTypeSigExpression struct {
	nodeImpl
	sigExpressionMarker

	Signature SigExpression  `json:"signature"`
	TyVars    []string       `json:"tyVars,omitempty"`
	Path      LongIdent      `json:"path"`
	Type      TypeExpression `json:"type"`
}

func NewWhereTypeSigExpression(sig SigExpression, tyVars []string, path LongIdent, ty TypeExpression) *WhereTypeSigExpression {
	return &WhereTypeSigExpression{nodeImpl: newNodeImpl(NodeWhereTypeSigExpr), Signature: sig, TyVars: tyVars, Path: path, Type: ty}
}

// Specifications.

type ValDescription struct {
	Name string         `json:"name"`
	Type TypeExpression `json:"type"`
	Span Span           `json:"span"`
}

type ValSpec struct {
	nodeImpl
	specMarker

	Descriptions []ValDescription `json:"descriptions"`
}

func NewValSpec(descs []ValDescription) *ValSpec {
	return &ValSpec{nodeImpl: newNodeImpl(NodeValSpec), Descriptions: descs}
}

type TypeDescription struct {
	TyVars     []string       `json:"tyVars,omitempty"`
	Name       string         `json:"name"`
	Definition TypeExpression `json:"definition,omitempty"`
	Span       Span           `json:"span"`
}

// TypeSpec covers `type`, `type t = ty` and `eqtype` specifications.
type TypeSpec struct {
	nodeImpl
	specMarker

	Equality     bool              `json:"equality,omitempty"`
	Descriptions []TypeDescription `json:"descriptions"`
}

func NewTypeSpec(eq bool, descs []TypeDescription) *TypeSpec {
	return &TypeSpec{nodeImpl: newNodeImpl(NodeTypeSpec), Equality: eq, Descriptions: descs}
}

type DatatypeSpec struct {
	nodeImpl
	specMarker

	Bindings []DatatypeBinding `json:"bindings"`
}

func NewDatatypeSpec(bindings []DatatypeBinding) *DatatypeSpec {
	return &DatatypeSpec{nodeImpl: newNodeImpl(NodeDatatypeSpec), Bindings: bindings}
}

type ExceptionDescription struct {
	Name     string         `json:"name"`
	Argument TypeExpression `json:"argument,omitempty"`
	Span     Span           `json:"span"`
}

type ExceptionSpec struct {
	nodeImpl
	specMarker

	Descriptions []ExceptionDescription `json:"descriptions"`
}

func NewExceptionSpec(descs []ExceptionDescription) *ExceptionSpec {
	return &ExceptionSpec{nodeImpl: newNodeImpl(NodeExceptionSpec), Descriptions: descs}
}

type StructureDescription struct {
	Name      string        `json:"name"`
	Signature SigExpression `json:"signature"`
	Span      Span          `json:"span"`
}

type StructureSpec struct {
	nodeImpl
	specMarker

	Descriptions []StructureDescription `json:"descriptions"`
}

func NewStructureSpec(descs []StructureDescription) *StructureSpec {
	return &StructureSpec{nodeImpl: newNodeImpl(NodeStructureSpec), Descriptions: descs}
}

type IncludeSpec struct {
	nodeImpl
	specMarker

	Signature SigExpression `json:"signature"`
}

func NewIncludeSpec(sig SigExpression) *IncludeSpec {
	return &IncludeSpec{nodeImpl: newNodeImpl(NodeIncludeSpec), Signature: sig}
}
