package ast

type SConKind string

const (
	SConInt    SConKind = "int"
	SConWord   SConKind = "word"
	SConReal   SConKind = "real"
	SConString SConKind = "string"
	SConChar   SConKind = "char"
)

type SConExpression struct {
	nodeImpl
	expressionMarker

	Kind SConKind `json:"kind"`
	Text string   `json:"text"`
}

func NewSConExpression(kind SConKind, text string) *SConExpression {
	return &SConExpression{nodeImpl: newNodeImpl(NodeSConExpression), Kind: kind, Text: text}
}

// PathExpression references a value, constructor or exception.
type PathExpression struct {
	nodeImpl
	expressionMarker

	Path LongIdent `json:"path"`
	Op   bool      `json:"op,omitempty"`
}

func NewPathExpression(path LongIdent) *PathExpression {
	return &PathExpression{nodeImpl: newNodeImpl(NodePathExpression), Path: path}
}

type ExpressionField struct {
	Label string     `json:"label"`
	Value Expression `json:"value"`
}

// RecordExpression also represents tuples (labels "1".."n") and unit (no fields).
type RecordExpression struct {
	nodeImpl
	expressionMarker

	Fields []ExpressionField `json:"fields"`
}

func NewRecordExpression(fields []ExpressionField) *RecordExpression {
	return &RecordExpression{nodeImpl: newNodeImpl(NodeRecordExpression), Fields: fields}
}

func NewTupleExpression(elements []Expression) *RecordExpression {
	fields := make([]ExpressionField, len(elements))
	for i, el := range elements {
		fields[i] = ExpressionField{Label: TupleLabel(i), Value: el}
	}
	return NewRecordExpression(fields)
}

type ListExpression struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewListExpression(elements []Expression) *ListExpression {
	return &ListExpression{nodeImpl: newNodeImpl(NodeListExpression), Elements: elements}
}

// SelectorExpression is #label.
type SelectorExpression struct {
	nodeImpl
	expressionMarker

	Label string `json:"label"`
}

func NewSelectorExpression(label string) *SelectorExpression {
	return &SelectorExpression{nodeImpl: newNodeImpl(NodeSelectorExpression), Label: label}
}

type LetExpression struct {
	nodeImpl
	expressionMarker

	Declarations []Declaration `json:"declarations"`
	Body         []Expression  `json:"body"`
}

func NewLetExpression(decls []Declaration, body []Expression) *LetExpression {
	return &LetExpression{nodeImpl: newNodeImpl(NodeLetExpression), Declarations: decls, Body: body}
}

type SequenceExpression struct {
	nodeImpl
	expressionMarker

	Expressions []Expression `json:"expressions"`
}

func NewSequenceExpression(exprs []Expression) *SequenceExpression {
	return &SequenceExpression{nodeImpl: newNodeImpl(NodeSequenceExpression), Expressions: exprs}
}

type AppExpression struct {
	nodeImpl
	expressionMarker

	Func Expression `json:"func"`
	Arg  Expression `json:"arg"`
}

func NewAppExpression(fn, arg Expression) *AppExpression {
	return &AppExpression{nodeImpl: newNodeImpl(NodeAppExpression), Func: fn, Arg: arg}
}

// InfixExpression is `left op right`, elaborated as op applied to a pair.
type InfixExpression struct {
	nodeImpl
	expressionMarker

	Operator *PathExpression `json:"operator"`
	Left     Expression      `json:"left"`
	Right    Expression      `json:"right"`
}

func NewInfixExpression(op *PathExpression, left, right Expression) *InfixExpression {
	return &InfixExpression{nodeImpl: newNodeImpl(NodeInfixExpression), Operator: op, Left: left, Right: right}
}

type BoolOperator string

const (
	BoolAndalso BoolOperator = "andalso"
	BoolOrelse  BoolOperator = "orelse"
)

type BoolExpression struct {
	nodeImpl
	expressionMarker

	Operator BoolOperator `json:"operator"`
	Left     Expression   `json:"left"`
	Right    Expression   `json:"right"`
}

func NewBoolExpression(op BoolOperator, left, right Expression) *BoolExpression {
	return &BoolExpression{nodeImpl: newNodeImpl(NodeBoolExpression), Operator: op, Left: left, Right: right}
}

type IfExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewIfExpression(cond, then, els Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: cond, Then: then, Else: els}
}

type MatchRule struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Body    Expression `json:"body"`
}

func NewMatchRule(pat Pattern, body Expression) *MatchRule {
	return &MatchRule{nodeImpl: newNodeImpl(NodeMatchRule), Pattern: pat, Body: body}
}

type CaseExpression struct {
	nodeImpl
	expressionMarker

	Subject Expression   `json:"subject"`
	Rules   []*MatchRule `json:"rules"`
}

func NewCaseExpression(subject Expression, rules []*MatchRule) *CaseExpression {
	return &CaseExpression{nodeImpl: newNodeImpl(NodeCaseExpression), Subject: subject, Rules: rules}
}

type FnExpression struct {
	nodeImpl
	expressionMarker

	Rules []*MatchRule `json:"rules"`
}

func NewFnExpression(rules []*MatchRule) *FnExpression {
	return &FnExpression{nodeImpl: newNodeImpl(NodeFnExpression), Rules: rules}
}

type HandleExpression struct {
	nodeImpl
	expressionMarker

	Body  Expression   `json:"body"`
	Rules []*MatchRule `json:"rules"`
}

func NewHandleExpression(body Expression, rules []*MatchRule) *HandleExpression {
	return &HandleExpression{nodeImpl: newNodeImpl(NodeHandleExpression), Body: body, Rules: rules}
}

type RaiseExpression struct {
	nodeImpl
	expressionMarker

	Exception Expression `json:"exception"`
}

func NewRaiseExpression(exn Expression) *RaiseExpression {
	return &RaiseExpression{nodeImpl: newNodeImpl(NodeRaiseExpression), Exception: exn}
}

type TypedExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression     `json:"expression"`
	Type       TypeExpression `json:"typeAnnotation"`
}

func NewTypedExpression(expr Expression, ty TypeExpression) *TypedExpression {
	return &TypedExpression{nodeImpl: newNodeImpl(NodeTypedExpression), Expression: expr, Type: ty}
}

type WhileExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Body      Expression `json:"body"`
}

func NewWhileExpression(cond, body Expression) *WhileExpression {
	return &WhileExpression{nodeImpl: newNodeImpl(NodeWhileExpression), Condition: cond, Body: body}
}
