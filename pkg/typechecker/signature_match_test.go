package typechecker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/diag"
)

func TestModuleProgramsHaveNoDiagnostics(t *testing.T) {
	cases := map[string]string{
		"transparent ascription": `
signature S = sig type t val x : t end
structure A : S = struct type t = int val x = 1 end
val y = A.x + 1`,
		"where type": `
signature S = sig type t val x : t end
structure A :> S where type t = int = struct type t = int val x = 1 end
val y = A.x + 1`,
		"functor": `
signature ORD = sig type t val le : t * t -> bool end
functor Max (O : ORD) = struct
  fun max (a, b) = if O.le (a, b) then b else a
end
structure IntMax = Max (struct type t = int fun le (a : int, b) = a <= b end)
val m = IntMax.max (1, 2) + 1`,
		"datatype spec": `
signature LIST = sig datatype 'a l = Nil | Cons of 'a * 'a l end
structure L :> LIST = struct datatype 'a l = Nil | Cons of 'a * 'a l end
val v = L.Cons (1, L.Nil)`,
		"nested structures": `
structure Outer = struct
  structure Inner = struct val x = 1 end
  val y = Inner.x + 1
end
val z = Outer.Inner.x + Outer.y`,
		"polymorphic spec": `
structure P : sig val id : 'a -> 'a end = struct fun id x = x end
val a = P.id 1
val b = P.id "s"`,
		"declarations in local": `
local
  signature S = sig val x : int end
  functor F (X : S) = struct val y = X.x end
in
  structure B = F (struct val x = 1 end)
end
val n = B.y + 1`,
		"eqtype": `
signature E = sig eqtype t val v : t end
structure A : E = struct type t = string val v = "a" end
val same = A.v = A.v`,
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			requireCodes(t, source)
		})
	}
}

func TestOpaqueAscriptionHidesRepresentation(t *testing.T) {
	diags := requireCodes(t, `
structure Foo :> sig type t val x : t end = struct type t = int val x = 3 end
val _ : unit = Foo.x`, diag.MismatchedTypes)
	assert.Equal(t, "unit", diags[0].Expected)
	assert.Equal(t, "Foo.t", diags[0].Found)
}

func TestTransparentAscriptionKeepsRepresentation(t *testing.T) {
	diags := requireCodes(t, `
structure Foo : sig type t val x : t end = struct type t = int val x = 3 end
val _ : unit = Foo.x`, diag.MismatchedTypes)
	assert.Equal(t, "int", diags[0].Found)
}

func TestOpaqueTypesAreDistinctPerAscription(t *testing.T) {
	diags := requireCodes(t, `
signature T = sig type t val x : t end
structure A :> T = struct type t = int val x = 1 end
structure B :> T = struct type t = int val x = 1 end
val _ = if true then A.x else B.x`, diag.MismatchedTypes)
	assert.Equal(t, "A.t", diags[0].Expected)
	assert.Equal(t, "B.t", diags[0].Found)
}

func TestFunctorApplicationsYieldDistinctTypes(t *testing.T) {
	diags := requireCodes(t, `
functor Box (X : sig end) = struct datatype box = Box of int end
structure A = Box (struct end)
structure B = Box (struct end)
val _ = if true then A.Box 1 else B.Box 1`, diag.MismatchedTypes)
	assert.Equal(t, "A.box", diags[0].Expected)
	assert.Equal(t, "B.box", diags[0].Found)
}

func TestSignatureMismatches(t *testing.T) {
	cases := map[string]struct {
		source  string
		message string
	}{
		"missing value": {
			source:  `structure S : sig val y : int end = struct val x = 1 end`,
			message: "missing value y",
		},
		"value type": {
			source:  `structure S : sig val x : string end = struct val x = 1 end`,
			message: "value x",
		},
		"missing type": {
			source:  `structure S : sig type t end = struct end`,
			message: "missing type t",
		},
		"type arity": {
			source:  `structure S : sig type 'a t end = struct type t = int end`,
			message: "type t takes 1 arguments",
		},
		"too general": {
			source:  `structure S : sig val f : 'a -> 'a end = struct fun f x = x + 1 end`,
			message: "value f",
		},
		"equality": {
			source:  `structure S : sig eqtype t end = struct type t = real end`,
			message: "must admit equality",
		},
		"datatype constructors": {
			source:  `structure S : sig datatype t = A | B end = struct datatype t = A end`,
			message: "constructors",
		},
		"nested missing": {
			source:  `structure S : sig structure T : sig val x : int end end = struct structure T = struct end end`,
			message: "missing value T.x",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			diags := requireCodes(t, tc.source, diag.SignatureMismatch)
			assert.Contains(t, diags[0].Message, tc.message)
		})
	}
}

func TestOnlyFirstSignatureMismatchIsReported(t *testing.T) {
	requireCodes(t, `structure S : sig val a : int val b : int end = struct end`, diag.SignatureMismatch)
}

func TestSignatureMismatchFollowsSpecificationOrder(t *testing.T) {
	diags := requireCodes(t, `
signature S = sig val x : int type t end
structure A : S = struct end`, diag.SignatureMismatch)
	assert.Contains(t, diags[0].Message, "missing value x")

	diags = requireCodes(t, `
signature S = sig type t val x : t structure N : sig val y : int end val z : int end
structure A : S = struct type t = int val x = 1 structure N = struct end end`, diag.SignatureMismatch)
	assert.Contains(t, diags[0].Message, "missing value N.y")
}

func TestSignatureMismatchLeavesUsableStructure(t *testing.T) {
	requireCodes(t, `
structure S : sig type t val x : int end = struct val x = 1 end
val y = S.x + 1`, diag.SignatureMismatch)
}

func TestSyntaxPositionInStructureBody(t *testing.T) {
	requireCodes(t, `structure S = struct signature X = sig end end`, diag.SyntaxPosition)
	requireCodes(t, `structure S = struct functor F (X : sig end) = struct end end`, diag.SyntaxPosition)
}

func TestUndefinedModuleNames(t *testing.T) {
	requireCodes(t, `structure S : NOPE = struct end`, diag.Undefined)
	requireCodes(t, `structure S = F (struct end)`, diag.Undefined)
	requireCodes(t, `structure S = T`, diag.Undefined)
}

func TestSummarizeExports(t *testing.T) {
	session, env, diags := checkSource(t, `
val x = 1
fun id y = y
datatype color = Red | Green
structure S = struct val s = "s" end
signature SIG = sig end`)
	require.Empty(t, diags)
	summary := session.Summarize(env)
	assert.Equal(t, "int", summary.Values["x"])
	assert.Equal(t, "'a -> 'a", summary.Values["id"])
	assert.Equal(t, "color", summary.Values["Red"])
	assert.Equal(t, 0, summary.Types["color"])
	assert.Equal(t, "string", summary.Structures["S"].Values["s"])
	assert.Equal(t, []string{"SIG"}, summary.Signatures)
	assert.Empty(t, summary.Functors)
}

func TestClosedSessionRejectsElaboration(t *testing.T) {
	session := NewSession()
	session.Close()
	assert.True(t, session.Arena().Frozen())
	assert.Panics(t, func() { session.Arena().Fresh() })
}
