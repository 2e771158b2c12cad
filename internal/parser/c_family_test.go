package parser

import "testing"

func TestCFunctionEntityAlwaysExported(t *testing.T) {
	src := "int add(int a, int b) {\n  return a + b;\n}\n"
	result := parseSource(t, "main.c", src)

	var fn *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "add" {
			fn = &result.Entities[i]
		}
	}
	if fn == nil {
		t.Fatal("expected an add function entity")
	}
	if !fn.IsExported {
		t.Error("C has no export keyword; top-level functions are always treated as exported")
	}
	if len(fn.Metadata.Parameters) != 2 {
		t.Errorf("expected 2 parameters, got %+v", fn.Metadata.Parameters)
	}
}

func TestCAnonymousParameterSentinel(t *testing.T) {
	src := "int add(int, int) {\n  return 0;\n}\n"
	result := parseSource(t, "main.c", src)

	var fn *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "add" {
			fn = &result.Entities[i]
		}
	}
	if fn == nil {
		t.Fatal("expected an add function entity")
	}
	if len(fn.Metadata.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %+v", fn.Metadata.Parameters)
	}
	for _, p := range fn.Metadata.Parameters {
		if p.Name != "<unnamed>" {
			t.Errorf("expected an anonymous C parameter to use the <unnamed> sentinel, got %q", p.Name)
		}
	}
}

func TestCVariadicParameterSentinel(t *testing.T) {
	src := "int sum(int count, ...) {\n  return count;\n}\n"
	result := parseSource(t, "main.c", src)

	var fn *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "sum" {
			fn = &result.Entities[i]
		}
	}
	if fn == nil {
		t.Fatal("expected a sum function entity")
	}
	if len(fn.Metadata.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %+v", fn.Metadata.Parameters)
	}
	variadic := fn.Metadata.Parameters[1]
	if !variadic.IsRest || variadic.Name != "..." {
		t.Errorf("expected the variadic parameter to be {Name: \"...\", IsRest: true}, got %+v", variadic)
	}
}

func TestCPointerDeclaratorName(t *testing.T) {
	src := "char *copy(const char *src) {\n  return 0;\n}\n"
	result := parseSource(t, "main.c", src)

	var found bool
	for _, e := range result.Entities {
		if e.Name == "copy" {
			found = true
		}
	}
	if !found {
		t.Error("expected cDeclaratorName to drill through a pointer_declarator down to the function name copy")
	}
}

func TestCDocComment(t *testing.T) {
	src := "/**\n * Adds two integers.\n */\nint add(int a, int b) {\n  return a + b;\n}\n"
	result := parseSource(t, "main.c", src)

	var doc string
	for _, e := range result.Entities {
		if e.Name == "add" {
			doc = e.Metadata.Documentation
		}
	}
	if doc != "/**\n * Adds two integers.\n */" {
		t.Errorf("doc comment mismatch, got %q", doc)
	}
}

func TestCAngleAndQuoteIncludes(t *testing.T) {
	src := "#include <stdio.h>\n#include \"local.h\"\n\nint main() { return 0; }\n"
	result := parseSource(t, "main.c", src)

	if len(result.Imports) != 2 {
		t.Fatalf("expected 2 includes, got %+v", result.Imports)
	}
	angle, quote := result.Imports[0], result.Imports[1]
	if angle.IsRelative {
		t.Error("expected <stdio.h> to be marked non-relative")
	}
	if !quote.IsRelative {
		t.Error("expected \"local.h\" to be marked relative")
	}
	if angle.Source != "stdio.h" || quote.Source != "local.h" {
		t.Errorf("expected angle-bracket trimming, got %q / %q", angle.Source, quote.Source)
	}
}

func TestCppClassSpecifierEntity(t *testing.T) {
	src := "class Widget {\npublic:\n  void render();\n};\n"
	result := parseSource(t, "widget.cpp", src)

	var found bool
	for _, e := range result.Entities {
		if e.Kind == EntityClass && e.Name == "Widget" {
			found = true
		}
	}
	if !found {
		t.Error("expected cppExtractor to emit a class_specifier entity that cExtractor would not")
	}
}

func TestCppQualifiedIdentifierCallTarget(t *testing.T) {
	src := "void run() {\n  Widget::create();\n}\n"
	result := parseSource(t, "widget.cpp", src)

	var call *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledExpression == "Widget::create" {
			call = &result.Calls[i]
		}
	}
	if call == nil {
		t.Fatalf("expected a call to Widget::create, got %+v", result.Calls)
	}
	if call.CalledName != "create" {
		t.Errorf("expected qualified_identifier call to resolve to create, got %q", call.CalledName)
	}
}
