package ast

type TyVarType struct {
	nodeImpl
	typeExpressionMarker

	Name string `json:"name"`
}

func NewTyVarType(name string) *TyVarType {
	return &TyVarType{nodeImpl: newNodeImpl(NodeTyVarType), Name: name}
}

// IsEqualityTyVar reports whether a written type variable is ''a.
func IsEqualityTyVar(name string) bool {
	return len(name) >= 2 && name[0] == '\'' && name[1] == '\''
}

type TypeField struct {
	Label string         `json:"label"`
	Type  TypeExpression `json:"type"`
}

type RecordType struct {
	nodeImpl
	typeExpressionMarker

	Fields []TypeField `json:"fields"`
}

func NewRecordType(fields []TypeField) *RecordType {
	return &RecordType{nodeImpl: newNodeImpl(NodeRecordType), Fields: fields}
}

func NewTupleType(elements []TypeExpression) *RecordType {
	fields := make([]TypeField, len(elements))
	for i, el := range elements {
		fields[i] = TypeField{Label: TupleLabel(i), Type: el}
	}
	return NewRecordType(fields)
}

type ConType struct {
	nodeImpl
	typeExpressionMarker

	Arguments   []TypeExpression `json:"arguments,omitempty"`
	Constructor LongIdent        `json:"constructor"`
}

func NewConType(args []TypeExpression, con LongIdent) *ConType {
	return &ConType{nodeImpl: newNodeImpl(NodeConType), Arguments: args, Constructor: con}
}

type FnType struct {
	nodeImpl
	typeExpressionMarker

	Param  TypeExpression `json:"param"`
	Result TypeExpression `json:"result"`
}

func NewFnType(param, result TypeExpression) *FnType {
	return &FnType{nodeImpl: newNodeImpl(NodeFnType), Param: param, Result: result}
}
