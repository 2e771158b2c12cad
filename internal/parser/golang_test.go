package parser

import "testing"

func TestGoFunctionExportedByCase(t *testing.T) {
	result := parseSource(t, "main.go", "package main\n\nfunc Hello() {}\n\nfunc helper() {}\n")

	var exported, unexported bool
	for _, e := range result.Entities {
		switch e.Name {
		case "Hello":
			exported = e.IsExported
		case "helper":
			unexported = e.IsExported
		}
	}
	if !exported {
		t.Error("expected Hello (uppercase-first) to be exported")
	}
	if unexported {
		t.Error("expected helper (lowercase-first) to be unexported")
	}
}

func TestGoPointerReceiverMethod(t *testing.T) {
	src := "package main\n\ntype Server struct{}\n\nfunc (s *Server) Start() {}\n"
	result := parseSource(t, "server.go", src)

	var method *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "Start" {
			method = &result.Entities[i]
		}
	}
	if method == nil {
		t.Fatal("expected to find a Start method entity")
	}
	if method.Kind != EntityMethod {
		t.Errorf("expected EntityMethod, got %s", method.Kind)
	}
	if method.Metadata.Extends != "*Server" {
		t.Errorf("expected receiver type *Server, got %q", method.Metadata.Extends)
	}
}

func TestGoDocComment(t *testing.T) {
	src := "package main\n\n// Greet prints a greeting.\n// It never returns an error.\nfunc Greet() {}\n"
	result := parseSource(t, "greet.go", src)

	var doc string
	for _, e := range result.Entities {
		if e.Name == "Greet" {
			doc = e.Metadata.Documentation
		}
	}
	want := "Greet prints a greeting.\nIt never returns an error."
	if doc != want {
		t.Errorf("doc comment mismatch:\ngot:  %q\nwant: %q", doc, want)
	}
}

func TestGoBlankAndDotImports(t *testing.T) {
	src := "package main\n\nimport (\n\t_ \"side/effect\"\n\t. \"dot/pkg\"\n\t\"plain/pkg\"\n\tf \"aliased/pkg\"\n)\n"
	result := parseSource(t, "main.go", src)

	byPath := map[string]ImportInfo{}
	for _, im := range result.Imports {
		byPath[im.Source] = im
	}

	if !byPath["side/effect"].IsSideEffect {
		t.Error("expected blank import to be marked IsSideEffect")
	}
	if byPath["dot/pkg"].NamespaceImport != "." {
		t.Error("expected dot import to set NamespaceImport to \".\"")
	}
	plain := byPath["plain/pkg"]
	if plain.IsSideEffect || plain.NamespaceImport != "" {
		t.Errorf("expected plain import to have no aliasing, got %+v", plain)
	}
	aliased := byPath["aliased/pkg"]
	if len(aliased.ImportedNames) != 1 || aliased.ImportedNames[0] != "f" || aliased.Aliases["aliased/pkg"] != "f" {
		t.Errorf("expected aliased import to bind imported_names=[f] with alias f, got %+v", aliased)
	}
}

func TestGoPointerCallTarget(t *testing.T) {
	src := "package main\n\nfunc run() {\n\t(*fn)()\n}\n"
	result := parseSource(t, "main.go", src)

	if len(result.Calls) != 1 {
		t.Fatalf("expected exactly one call, got %d: %+v", len(result.Calls), result.Calls)
	}
	if result.Calls[0].CalledName != CallPointer {
		t.Errorf("expected sentinel %q for a call through a dereferenced function pointer, got %q", CallPointer, result.Calls[0].CalledName)
	}
	if result.Calls[0].CallerName != "run" {
		t.Errorf("expected caller_name run, got %q", result.Calls[0].CallerName)
	}
}

func TestGoChainedCallTarget(t *testing.T) {
	result := parseSource(t, "main.go", "package main\n\nfunc run() {\n\tbuilder().Build()\n}\n")

	var chained *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledExpression == "builder().Build" {
			chained = &result.Calls[i]
		}
	}
	if chained == nil {
		t.Fatalf("expected a call to builder().Build, got %+v", result.Calls)
	}
	if chained.CalledName != CallChained {
		t.Errorf("expected chained sentinel, got %q", chained.CalledName)
	}
}

func TestGoGroupedTypeDeclarationDocComment(t *testing.T) {
	src := "package main\n\ntype (\n\t// Width is a span in columns.\n\tWidth int\n\t// Height is a span in rows.\n\tHeight int\n)\n"
	result := parseSource(t, "dims.go", src)

	docs := map[string]string{}
	for _, e := range result.Entities {
		docs[e.Name] = e.Metadata.Documentation
	}
	if docs["Width"] != "Width is a span in columns." {
		t.Errorf("Width doc mismatch: %q", docs["Width"])
	}
	if docs["Height"] != "Height is a span in rows." {
		t.Errorf("Height doc mismatch: %q", docs["Height"])
	}
}
