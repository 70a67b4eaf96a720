package diag

import (
	"fmt"
	"strconv"
)

// Code is a stable diagnostic code. Codes are a compatibility contract: a
// code is never reused for a different problem.
type Code int

const (
	SyntaxError       Code = 2001
	MismatchedTypes   Code = 5001
	AppMismatch       Code = 5002
	OverloadMismatch  Code = 5003
	NotEqualityType   Code = 5004
	SignatureMismatch Code = 5005
	Undefined         Code = 5006
	OccursCheck       Code = 5007
	SyntaxPosition    Code = 5008
	Duplicate         Code = 5009
	UnresolvedRecord  Code = 5010
	WrongArity        Code = 5011
	NotConstructor    Code = 5012
)

// CodeInfo describes one entry of the registry.
type CodeInfo struct {
	Code    Code   `json:"code"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

var registry = []CodeInfo{
	{SyntaxError, "SyntaxError", "the source text is malformed or breaks a syntactic restriction"},
	{MismatchedTypes, "MismatchedTypes", "two types that must be equal have different shapes"},
	{AppMismatch, "AppMismatch", "a function was applied to an argument of the wrong type"},
	{OverloadMismatch, "OverloadMismatch", "an overloaded operator was used at a type outside its class"},
	{NotEqualityType, "NotEqualityType", "a type that does not admit equality was compared for equality"},
	{SignatureMismatch, "SignatureMismatch", "a structure does not match the signature ascribed to it"},
	{Undefined, "Undefined", "a name is not bound at this point"},
	{OccursCheck, "OccursCheck", "a type would have to contain itself"},
	{SyntaxPosition, "SyntaxPosition", "a signature or functor declaration appears inside a structure body"},
	{Duplicate, "Duplicate", "a name is bound more than once in the same binding"},
	{UnresolvedRecord, "UnresolvedRecord", "the full type of a record could not be determined"},
	{WrongArity, "WrongArity", "a type constructor was given the wrong number of arguments"},
	{NotConstructor, "NotConstructor", "a non-constructor was used as a constructor in a pattern"},
}

// Registry returns every known code in ascending order.
func Registry() []CodeInfo {
	out := make([]CodeInfo, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for code.
func Lookup(code Code) (CodeInfo, bool) {
	for _, info := range registry {
		if info.Code == code {
			return info, true
		}
	}
	return CodeInfo{}, false
}

func (c Code) Name() string {
	if info, ok := Lookup(c); ok {
		return info.Name
	}
	return fmt.Sprintf("Code%d", int(c))
}

func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// ParseCode parses a registered code such as "5001".
func ParseCode(text string) (Code, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("diag: invalid code %q: %w", text, err)
	}
	code := Code(n)
	if _, ok := Lookup(code); !ok {
		return 0, fmt.Errorf("diag: unknown code %d", n)
	}
	return code, nil
}
