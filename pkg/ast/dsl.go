package ast

// Expression helpers.

func Path(text string) *PathExpression {
	return NewPathExpression(ParseLongIdent(text))
}

func Int(text string) *SConExpression {
	return NewSConExpression(SConInt, text)
}

func Real(text string) *SConExpression {
	return NewSConExpression(SConReal, text)
}

func Str(value string) *SConExpression {
	return NewSConExpression(SConString, value)
}

func App(fn, arg Expression) *AppExpression {
	return NewAppExpression(fn, arg)
}

func Infix(op string, left, right Expression) *InfixExpression {
	return NewInfixExpression(Path(op), left, right)
}

func Tuple(elements ...Expression) *RecordExpression {
	return NewTupleExpression(elements)
}

func Unit() *RecordExpression {
	return NewRecordExpression(nil)
}

func Fn(pat Pattern, body Expression) *FnExpression {
	return NewFnExpression([]*MatchRule{NewMatchRule(pat, body)})
}

// Pattern helpers.

func Var(name string) *VarPattern {
	return NewVarPattern(LongIdent{Name: name})
}

func Wild() *WildcardPattern {
	return NewWildcardPattern()
}

// Type helpers.

func Ty(name string, args ...TypeExpression) *ConType {
	return NewConType(args, ParseLongIdent(name))
}

func TyVar(name string) *TyVarType {
	return NewTyVarType(name)
}

func Arrow(param, result TypeExpression) *FnType {
	return NewFnType(param, result)
}

// Declaration helpers.

func Val(pat Pattern, value Expression) *ValDeclaration {
	return NewValDeclaration(nil, false, []ValueBinding{{Pattern: pat, Value: value}})
}

func Structure(name string, asc *Ascription, body StrExpression) *StructureDeclaration {
	return NewStructureDeclaration([]StructureBinding{{Name: name, Ascription: asc, Body: body}})
}

func Struct(decls ...Declaration) *StructExpression {
	return NewStructExpression(decls)
}

func Sig(specs ...Spec) *SigExpr {
	return NewSigExpr(specs)
}

func File(decls ...Declaration) *SourceFile {
	return NewSourceFile("", decls)
}
