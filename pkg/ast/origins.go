package ast

import "reflect"

var spanType = reflect.TypeOf(Span{})

// Inspect calls visit for every node reachable from root, parents before
// children. Returning false from visit skips the node's children.
func Inspect(root Node, visit func(Node) bool) {
	if root == nil || visit == nil {
		return
	}
	inspectNode(root, visit, make(map[Node]struct{}))
}

// ClearSpans zeroes every span reachable from root, including the spans
// recorded on bindings and clauses. Tests use it to compare trees structurally.
func ClearSpans(root Node) {
	Inspect(root, func(node Node) bool {
		SetSpan(node, Span{})
		val := reflect.ValueOf(node)
		if val.Kind() == reflect.Pointer && !val.IsNil() {
			clearSpanFields(val.Elem())
		}
		return true
	})
}

func inspectNode(node Node, visit func(Node) bool, visited map[Node]struct{}) {
	if node == nil {
		return
	}
	val := reflect.ValueOf(node)
	if val.Kind() == reflect.Pointer && val.IsNil() {
		return
	}
	if _, ok := visited[node]; ok {
		return
	}
	visited[node] = struct{}{}
	if !visit(node) {
		return
	}
	if val.Kind() == reflect.Pointer {
		inspectValue(val.Elem(), visit, visited)
		return
	}
	inspectValue(val, visit, visited)
}

func inspectValue(val reflect.Value, visit func(Node) bool, visited map[Node]struct{}) {
	if !val.IsValid() {
		return
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return
		}
		if val.CanInterface() {
			if node, ok := val.Interface().(Node); ok {
				inspectNode(node, visit, visited)
				return
			}
		}
		inspectValue(val.Elem(), visit, visited)
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			if !val.Type().Field(i).IsExported() {
				continue
			}
			inspectValue(val.Field(i), visit, visited)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			inspectValue(val.Index(i), visit, visited)
		}
	}
}

// clearSpanFields zeroes exported Span fields held directly in node structs
// and in the binding/clause values they contain. Child nodes are reached by
// Inspect itself.
func clearSpanFields(val reflect.Value) {
	switch val.Kind() {
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !val.Type().Field(i).IsExported() {
				continue
			}
			if field.Type() == spanType {
				if field.CanSet() {
					field.Set(reflect.Zero(spanType))
				}
				continue
			}
			clearSpanFields(field)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			clearSpanFields(val.Index(i))
		}
	case reflect.Pointer:
		if val.IsNil() {
			return
		}
		if _, ok := val.Interface().(Node); ok {
			return
		}
		clearSpanFields(val.Elem())
	}
}
