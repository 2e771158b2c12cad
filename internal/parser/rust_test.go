package parser

import "testing"

func TestRustVisibilityModifierMarksExported(t *testing.T) {
	src := "pub fn greet() {}\nfn helper() {}\n"
	result := parseSource(t, "lib.rs", src)

	var exported, unexported bool
	for _, e := range result.Entities {
		switch e.Name {
		case "greet":
			exported = e.IsExported
		case "helper":
			unexported = e.IsExported
		}
	}
	if !exported {
		t.Error("expected pub fn greet to be exported")
	}
	if unexported {
		t.Error("expected fn helper (no visibility_modifier) to be unexported")
	}
}

func TestRustTripleSlashDocComment(t *testing.T) {
	src := "/// Greets the caller.\n/// Never panics.\npub fn greet() {}\n"
	result := parseSource(t, "lib.rs", src)

	var doc string
	for _, e := range result.Entities {
		if e.Name == "greet" {
			doc = e.Metadata.Documentation
		}
	}
	want := "Greets the caller.\nNever panics."
	if doc != want {
		t.Errorf("doc comment mismatch:\ngot:  %q\nwant: %q", doc, want)
	}
}

func TestRustUseAliasAndWildcard(t *testing.T) {
	src := "use std::collections::HashMap as Map;\nuse std::io::*;\n"
	result := parseSource(t, "lib.rs", src)

	if len(result.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %+v", result.Imports)
	}

	aliased := result.Imports[0]
	if aliased.Source != "std::collections::HashMap" {
		t.Errorf("expected source std::collections::HashMap, got %q", aliased.Source)
	}
	if len(aliased.ImportedNames) != 1 || aliased.ImportedNames[0] != "HashMap" {
		t.Errorf("expected imported_names to carry the original name HashMap, got %+v", aliased.ImportedNames)
	}
	if aliased.Aliases["HashMap"] != "Map" {
		t.Errorf("expected alias HashMap->Map, got %+v", aliased.Aliases)
	}

	wildcard := result.Imports[1]
	if wildcard.NamespaceImport != "*" {
		t.Errorf("expected wildcard use to set NamespaceImport *, got %q", wildcard.NamespaceImport)
	}
	if !wildcard.IsSideEffect {
		t.Error("expected wildcard use to be marked IsSideEffect")
	}
}

func TestRustUseListExpansion(t *testing.T) {
	src := "use std::io::{Read, Write};\n"
	result := parseSource(t, "lib.rs", src)

	if len(result.Imports) != 2 {
		t.Fatalf("expected use-list to expand into 2 imports, got %+v", result.Imports)
	}
	sources := map[string]bool{}
	for _, im := range result.Imports {
		sources[im.Source] = true
	}
	if !sources["std::io::Read"] || !sources["std::io::Write"] {
		t.Errorf("expected expanded sources std::io::Read and std::io::Write, got %+v", result.Imports)
	}
}

func TestRustRelativeCratePath(t *testing.T) {
	src := "use crate::config::Settings;\n"
	result := parseSource(t, "lib.rs", src)

	if len(result.Imports) != 1 || !result.Imports[0].IsRelative {
		t.Errorf("expected a crate:: path to be marked relative, got %+v", result.Imports)
	}
}

func TestRustScopedIdentifierCallTarget(t *testing.T) {
	src := "fn run() {\n    std::process::exit(1);\n}\n"
	result := parseSource(t, "main.rs", src)

	var call *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledExpression == "std::process::exit" {
			call = &result.Calls[i]
		}
	}
	if call == nil {
		t.Fatalf("expected a call to std::process::exit, got %+v", result.Calls)
	}
	if call.CalledName != "exit" {
		t.Errorf("expected scoped_identifier call to resolve to its last segment exit, got %q", call.CalledName)
	}
}
