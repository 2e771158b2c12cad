package parser

import "testing"

func TestRubyClassWithSuperclass(t *testing.T) {
	src := "class Widget < Base\n  def render\n  end\nend\n"
	result := parseSource(t, "widget.rb", src)

	var widget *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Kind == EntityClass && result.Entities[i].Name == "Widget" {
			widget = &result.Entities[i]
		}
	}
	if widget == nil {
		t.Fatal("expected a Widget class entity")
	}
	if widget.Metadata.Extends != "Base" {
		t.Errorf("expected superclass Base, got %q", widget.Metadata.Extends)
	}
}

func TestRubySingletonMethodIsStatic(t *testing.T) {
	src := "class Widget\n  def self.create\n  end\nend\n"
	result := parseSource(t, "widget.rb", src)

	var method *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "create" {
			method = &result.Entities[i]
		}
	}
	if method == nil {
		t.Fatal("expected a create method entity")
	}
	if !method.Metadata.IsStatic {
		t.Error("expected a singleton_method (def self.x) to be marked IsStatic")
	}
}

func TestRubyContiguousHashComments(t *testing.T) {
	src := "# Renders the widget.\n# Never raises.\ndef render\nend\n"
	result := parseSource(t, "widget.rb", src)

	var doc string
	for _, e := range result.Entities {
		if e.Name == "render" {
			doc = e.Metadata.Documentation
		}
	}
	want := "Renders the widget.\nNever raises."
	if doc != want {
		t.Errorf("doc comment mismatch:\ngot:  %q\nwant: %q", doc, want)
	}
}

func TestRubyRequireRelative(t *testing.T) {
	src := "require_relative \"./helpers\"\nrequire \"json\"\n"
	result := parseSource(t, "app.rb", src)

	if len(result.Imports) != 2 {
		t.Fatalf("expected 2 require-style imports, got %+v", result.Imports)
	}
	rel, abs := result.Imports[0], result.Imports[1]
	if !rel.IsRelative {
		t.Error("expected require_relative to be marked relative")
	}
	if abs.IsRelative {
		t.Error("expected plain require \"json\" to be non-relative")
	}
	if rel.Source != "./helpers" || abs.Source != "json" {
		t.Errorf("unexpected sources: %q / %q", rel.Source, abs.Source)
	}
}

func TestRubyRequireExcludedFromCalls(t *testing.T) {
	src := "require \"json\"\n\ndef run\n  puts(\"hi\")\nend\n"
	result := parseSource(t, "app.rb", src)

	for _, c := range result.Calls {
		if c.CalledName == "require" {
			t.Errorf("require(...) should never surface as a call, got %+v", c)
		}
	}
	var found bool
	for _, c := range result.Calls {
		if c.CalledName == "puts" {
			found = true
		}
	}
	if !found {
		t.Error("expected the puts call to still be captured")
	}
}

func TestRubyChainedCallTarget(t *testing.T) {
	src := "def run\n  builder.create.build\nend\n"
	result := parseSource(t, "app.rb", src)

	var chained *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledExpression == "builder.create.build" {
			chained = &result.Calls[i]
		}
	}
	if chained == nil {
		t.Fatalf("expected a call to builder.create.build, got %+v", result.Calls)
	}
	if chained.CalledName != CallChained {
		t.Errorf("expected a call receiver to resolve to the chained sentinel, got %q", chained.CalledName)
	}
}
