package parser

import "testing"

func TestTSExportedAsyncMethod(t *testing.T) {
	src := "export class Server {\n  async start(): Promise<void> {\n    await connect();\n  }\n}\n"
	result := parseSource(t, "server.ts", src)

	var method *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "start" {
			method = &result.Entities[i]
		}
	}
	if method == nil {
		t.Fatalf("expected a start method entity, got %+v", result.Entities)
	}
	if !method.Metadata.IsAsync {
		t.Error("expected start to be marked async")
	}
	if method.IsExported {
		t.Error("export only applies to the declaration directly under export_statement, not nested class members")
	}

	var awaitCall *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledName == "connect" {
			awaitCall = &result.Calls[i]
		}
	}
	if awaitCall == nil {
		t.Fatalf("expected a call to connect, got %+v", result.Calls)
	}
	if !awaitCall.IsAsync {
		t.Error("expected the awaited call to be marked is_async")
	}
	if awaitCall.CallerName != "start" {
		t.Errorf("expected caller_name start, got %q", awaitCall.CallerName)
	}
}

func TestTSArrowFunctionNaming(t *testing.T) {
	src := "const double = (x: number) => x * 2;\n"
	result := parseSource(t, "math.ts", src)

	var fn *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Kind == EntityFunction {
			fn = &result.Entities[i]
		}
	}
	if fn == nil {
		t.Fatalf("expected an arrow function entity named double, got %+v", result.Entities)
	}
	if fn.Name != "double" {
		t.Errorf("expected arrow function name double, got %q", fn.Name)
	}
}

func TestTSNewExpressionExcludedFromCalls(t *testing.T) {
	src := "function build() {\n  return new Widget();\n}\n"
	result := parseSource(t, "build.ts", src)

	for _, c := range result.Calls {
		if c.CalledName == "Widget" {
			t.Errorf("new Widget() should never appear in calls, got %+v", c)
		}
	}
}

func TestJSExportNamedAndDefault(t *testing.T) {
	src := "function helper() {}\nexport { helper as default };\n"
	result := parseSource(t, "helper.js", src)

	if len(result.Exports) != 1 {
		t.Fatalf("expected exactly one export clause, got %+v", result.Exports)
	}
	exp := result.Exports[0]
	if len(exp.ExportedNames) != 1 || exp.ExportedNames[0] != "helper" {
		t.Errorf("expected exported name helper, got %+v", exp.ExportedNames)
	}
	if exp.Aliases["helper"] != "default" {
		t.Errorf("expected alias helper->default, got %+v", exp.Aliases)
	}
}

func TestJSImportVariants(t *testing.T) {
	src := "import Default, { a, b as c } from \"./local\";\nimport * as ns from \"pkg\";\nimport \"polyfill\";\n"
	result := parseSource(t, "app.js", src)

	if len(result.Imports) != 3 {
		t.Fatalf("expected 3 import statements, got %d: %+v", len(result.Imports), result.Imports)
	}

	local := result.Imports[0]
	if local.DefaultImport != "Default" {
		t.Errorf("expected default import Default, got %q", local.DefaultImport)
	}
	if len(local.ImportedNames) != 2 {
		t.Errorf("expected two named imports, got %+v", local.ImportedNames)
	}
	if local.Aliases["b"] != "c" {
		t.Errorf("expected alias b->c, got %+v", local.Aliases)
	}
	if !local.IsRelative {
		t.Error("expected ./local to be marked relative")
	}

	ns := result.Imports[1]
	if ns.NamespaceImport != "ns" {
		t.Errorf("expected namespace import ns, got %q", ns.NamespaceImport)
	}

	side := result.Imports[2]
	if !side.IsSideEffect {
		t.Error("expected bare import to be marked IsSideEffect")
	}
}

func TestJSDynamicSubscriptCall(t *testing.T) {
	src := "function run(obj, key) {\n  obj[key]();\n  obj[\"literal\"]();\n}\n"
	result := parseSource(t, "dyn.js", src)

	var dynamic, literal *CallInfo
	for i := range result.Calls {
		switch result.Calls[i].CalledExpression {
		case "obj[key]":
			dynamic = &result.Calls[i]
		case "obj[\"literal\"]":
			literal = &result.Calls[i]
		}
	}
	if dynamic == nil || dynamic.CalledName != CallDynamic {
		t.Errorf("expected obj[key]() to resolve to %q, got %+v", CallDynamic, dynamic)
	}
	if literal == nil || literal.CalledName != "literal" {
		t.Errorf("expected obj[\"literal\"]() to resolve to literal, got %+v", literal)
	}
}
