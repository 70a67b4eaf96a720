package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// Session elaborates one top-level compilation unit. Every file of the unit,
// nested units included, shares the session's arena so that types flowing
// between files stay comparable.
type Session struct {
	arena *types.Arena
	basis *Env
}

// NewSession creates a session with a fresh arena and initial basis.
func NewSession() *Session {
	arena := types.NewArena()
	return &Session{arena: arena, basis: newBasis(arena)}
}

// Basis returns the initial environment. Nested units start from it.
func (s *Session) Basis() *Env {
	return s.basis
}

// Arena exposes the session's type store.
func (s *Session) Arena() *types.Arena {
	return s.arena
}

// CheckFile elaborates file in env and returns the environment the file
// adds together with its diagnostics in emission order.
func (s *Session) CheckFile(env *Env, path string, file *ast.SourceFile) (*Env, []diag.Diagnostic) {
	if env == nil {
		env = s.basis
	}
	checker := newChecker(s.arena, path)
	delta := checker.CheckFile(env, file)
	return delta, checker.Diagnostics()
}

// Close freezes the arena. Further elaboration in this session panics.
func (s *Session) Close() {
	s.arena.Freeze()
}

// EnvSummary describes the bindings an environment exposes, with types
// rendered for display.
type EnvSummary struct {
	Values     map[string]string     `json:"values,omitempty"`
	Types      map[string]int        `json:"types,omitempty"`
	Structures map[string]EnvSummary `json:"structures,omitempty"`
	Signatures []string              `json:"signatures,omitempty"`
	Functors   []string              `json:"functors,omitempty"`
}

// Summarize renders the own layer of env. Types map to their arity.
func (s *Session) Summarize(env *Env) EnvSummary {
	return summarizeEnv(s.arena, env)
}

func summarizeEnv(arena *types.Arena, env *Env) EnvSummary {
	var out EnvSummary
	if env == nil {
		return out
	}
	for _, name := range env.ValueNames() {
		if out.Values == nil {
			out.Values = map[string]string{}
		}
		info := env.values[name]
		out.Values[name] = types.NewPrinter(arena).Scheme(info.Scheme)
	}
	for _, name := range env.TypeNames() {
		if out.Types == nil {
			out.Types = map[string]int{}
		}
		out.Types[name] = env.types[name].Fun.Arity
	}
	for _, name := range env.StructureNames() {
		if out.Structures == nil {
			out.Structures = map[string]EnvSummary{}
		}
		out.Structures[name] = summarizeEnv(arena, env.structures[name])
	}
	out.Signatures = sortedKeys(env.signatures)
	out.Functors = sortedKeys(env.functors)
	return out
}
