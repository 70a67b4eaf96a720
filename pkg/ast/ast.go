package ast

import "strings"

type NodeType string

const (
	NodeSourceFile NodeType = "SourceFile"

	NodeSConExpression     NodeType = "SConExpression"
	NodePathExpression     NodeType = "PathExpression"
	NodeRecordExpression   NodeType = "RecordExpression"
	NodeListExpression     NodeType = "ListExpression"
	NodeSelectorExpression NodeType = "SelectorExpression"
	NodeLetExpression      NodeType = "LetExpression"
	NodeSequenceExpression NodeType = "SequenceExpression"
	NodeAppExpression      NodeType = "AppExpression"
	NodeInfixExpression    NodeType = "InfixExpression"
	NodeBoolExpression     NodeType = "BoolExpression"
	NodeIfExpression       NodeType = "IfExpression"
	NodeCaseExpression     NodeType = "CaseExpression"
	NodeFnExpression       NodeType = "FnExpression"
	NodeHandleExpression   NodeType = "HandleExpression"
	NodeRaiseExpression    NodeType = "RaiseExpression"
	NodeTypedExpression    NodeType = "TypedExpression"
	NodeWhileExpression    NodeType = "WhileExpression"
	NodeMatchRule          NodeType = "MatchRule"

	NodeWildcardPattern NodeType = "WildcardPattern"
	NodeSConPattern     NodeType = "SConPattern"
	NodeVarPattern      NodeType = "VarPattern"
	NodeConPattern      NodeType = "ConPattern"
	NodeRecordPattern   NodeType = "RecordPattern"
	NodeListPattern     NodeType = "ListPattern"
	NodeInfixPattern    NodeType = "InfixPattern"
	NodeTypedPattern    NodeType = "TypedPattern"
	NodeAsPattern       NodeType = "AsPattern"

	NodeTyVarType  NodeType = "TyVarType"
	NodeRecordType NodeType = "RecordType"
	NodeConType    NodeType = "ConType"
	NodeFnType     NodeType = "FnType"

	NodeValDeclaration          NodeType = "ValDeclaration"
	NodeFunDeclaration          NodeType = "FunDeclaration"
	NodeTypeDeclaration         NodeType = "TypeDeclaration"
	NodeDatatypeDeclaration     NodeType = "DatatypeDeclaration"
	NodeDatatypeCopyDeclaration NodeType = "DatatypeCopyDeclaration"
	NodeExceptionDeclaration    NodeType = "ExceptionDeclaration"
	NodeLocalDeclaration        NodeType = "LocalDeclaration"
	NodeOpenDeclaration         NodeType = "OpenDeclaration"
	NodeFixityDeclaration       NodeType = "FixityDeclaration"
	NodeStructureDeclaration    NodeType = "StructureDeclaration"
	NodeSignatureDeclaration    NodeType = "SignatureDeclaration"
	NodeFunctorDeclaration      NodeType = "FunctorDeclaration"

	NodeStructExpression     NodeType = "StructExpression"
	NodePathStrExpression    NodeType = "PathStrExpression"
	NodeAscriptionExpression NodeType = "AscriptionExpression"
	NodeFunctorApplication   NodeType = "FunctorApplication"
	NodeLetStrExpression     NodeType = "LetStrExpression"

	NodeSigExpression      NodeType = "SigExpression"
	NodeNamedSigExpression NodeType = "NamedSigExpression"
	NodeWhereTypeSigExpr   NodeType = "WhereTypeSigExpression"

	NodeValSpec       NodeType = "ValSpec"
	NodeTypeSpec      NodeType = "TypeSpec"
	NodeDatatypeSpec  NodeType = "DatatypeSpec"
	NodeExceptionSpec NodeType = "ExceptionSpec"
	NodeStructureSpec NodeType = "StructureSpec"
	NodeIncludeSpec   NodeType = "IncludeSpec"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

type spanSetter interface {
	setSpan(Span)
}

// SetSpan records the source span of a node created outside the parser.
func SetSpan(node Node, span Span) {
	if setter, ok := node.(spanSetter); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

// Declaration covers core declarations as well as structure, signature and
// functor bindings; placement rules are enforced during elaboration.
type Declaration interface {
	Node
	declarationNode()
}

type declarationMarker struct{}

func (declarationMarker) declarationNode() {}

type StrExpression interface {
	Node
	strExpressionNode()
}

type strExpressionMarker struct{}

func (strExpressionMarker) strExpressionNode() {}

type SigExpression interface {
	Node
	sigExpressionNode()
}

type sigExpressionMarker struct{}

func (sigExpressionMarker) sigExpressionNode() {}

type Spec interface {
	Node
	specNode()
}

type specMarker struct{}

func (specMarker) specNode() {}

// LongIdent is a possibly qualified name such as Foo.Bar.x.
type LongIdent struct {
	Structures []string `json:"structures,omitempty"`
	Name       string   `json:"name"`
}

func ParseLongIdent(text string) LongIdent {
	parts := strings.Split(text, ".")
	if len(parts) == 1 {
		return LongIdent{Name: text}
	}
	return LongIdent{Structures: parts[:len(parts)-1], Name: parts[len(parts)-1]}
}

func (l LongIdent) IsQualified() bool { return len(l.Structures) > 0 }

func (l LongIdent) String() string {
	if len(l.Structures) == 0 {
		return l.Name
	}
	return strings.Join(l.Structures, ".") + "." + l.Name
}

// SourceFile is the root of one parsed member file.
type SourceFile struct {
	nodeImpl

	Path         string        `json:"path,omitempty"`
	Declarations []Declaration `json:"declarations"`
}

func NewSourceFile(path string, decls []Declaration) *SourceFile {
	return &SourceFile{nodeImpl: newNodeImpl(NodeSourceFile), Path: path, Declarations: decls}
}
