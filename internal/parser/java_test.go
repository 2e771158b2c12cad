package parser

import "testing"

func TestJavaEntitiesNeverMarkedExported(t *testing.T) {
	src := "public class Widget {\n  public void render() {}\n}\n"
	result := parseSource(t, "Widget.java", src)

	if len(result.Entities) == 0 {
		t.Fatal("expected at least one entity")
	}
	for _, e := range result.Entities {
		if e.IsExported {
			t.Errorf("Java has no export concept; expected IsExported false for %s, got true", e.Name)
		}
	}
}

func TestJavaJavadocComment(t *testing.T) {
	src := "public class Widget {\n  /**\n   * Renders the widget to the screen.\n   */\n  public void render() {}\n}\n"
	result := parseSource(t, "Widget.java", src)

	var doc string
	for _, e := range result.Entities {
		if e.Name == "render" {
			doc = e.Metadata.Documentation
		}
	}
	if doc != "/**\n   * Renders the widget to the screen.\n   */" {
		t.Errorf("Javadoc mismatch, got %q", doc)
	}
}

func TestJavaSuperclassAndInterfaces(t *testing.T) {
	src := "public class Widget extends Base implements Drawable, Comparable<Widget> {\n}\n"
	result := parseSource(t, "Widget.java", src)

	var widget *CodeEntity
	for i := range result.Entities {
		if result.Entities[i].Name == "Widget" {
			widget = &result.Entities[i]
		}
	}
	if widget == nil {
		t.Fatal("expected a Widget class entity")
	}
	if widget.Metadata.Extends != "Base" {
		t.Errorf("expected superclass Base, got %q", widget.Metadata.Extends)
	}
	if len(widget.Metadata.Implements) != 2 {
		t.Errorf("expected 2 implemented interfaces, got %+v", widget.Metadata.Implements)
	}
}

func TestJavaObjectCreationIsACall(t *testing.T) {
	src := "public class Widget {\n  void build() {\n    new Helper();\n  }\n}\n"
	result := parseSource(t, "Widget.java", src)

	var creation *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledName == "Helper" {
			creation = &result.Calls[i]
		}
	}
	if creation == nil {
		t.Fatalf("expected object_creation_expression to surface as a call, got %+v", result.Calls)
	}
	if creation.CalledExpression != "new Helper" {
		t.Errorf("expected called_expression 'new Helper', got %q", creation.CalledExpression)
	}
	if creation.CallerName != "build" {
		t.Errorf("expected caller_name build, got %q", creation.CallerName)
	}
}

func TestJavaChainedMethodInvocation(t *testing.T) {
	src := "public class Widget {\n  void build() {\n    factory().create();\n  }\n}\n"
	result := parseSource(t, "Widget.java", src)

	var chained *CallInfo
	for i := range result.Calls {
		if result.Calls[i].CalledName == CallChained {
			chained = &result.Calls[i]
		}
	}
	if chained == nil {
		t.Fatalf("expected a chained method_invocation, got %+v", result.Calls)
	}
}

func TestJavaWildcardImport(t *testing.T) {
	src := "import java.util.*;\n\npublic class Widget {}\n"
	result := parseSource(t, "Widget.java", src)

	if len(result.Imports) != 1 {
		t.Fatalf("expected one import, got %+v", result.Imports)
	}
	imp := result.Imports[0]
	if imp.Source != "java.util" {
		t.Errorf("expected source java.util, got %q", imp.Source)
	}
	if len(imp.ImportedNames) != 1 || imp.ImportedNames[0] != "*" {
		t.Errorf("expected wildcard import, got %+v", imp.ImportedNames)
	}
}
