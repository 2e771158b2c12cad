package parser

import (
	"context"
	"strings"
	"testing"
	"time"
)

func parseSource(t *testing.T, path, content string) *ParseResult {
	t.Helper()
	registry := NewLanguageRegistry()
	result, err := ParseFile(context.Background(), registry, []byte(content), path, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile(%s) returned an error: %v", path, err)
	}
	return result
}

func TestParseFileAcrossLanguages(t *testing.T) {
	testCases := []struct {
		name          string
		path          string
		content       string
		wantEntity    string
		wantEntityKey string // expected CodeEntity.Name
	}{
		{
			name:          "Go function",
			path:          "main.go",
			content:       "package main\n\nfunc Hello() string {\n\treturn \"hi\"\n}\n",
			wantEntity:    string(EntityFunction),
			wantEntityKey: "Hello",
		},
		{
			name:          "TypeScript exported async method",
			path:          "app.ts",
			content:       "export class Server {\n  async start(): Promise<void> {}\n}\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "Server",
		},
		{
			name:          "Python class",
			path:          "app.py",
			content:       "class Widget:\n    def render(self):\n        pass\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "Widget",
		},
		{
			name:          "Java class",
			path:          "App.java",
			content:       "public class App {\n  void run() {}\n}\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "App",
		},
		{
			name:          "Rust struct",
			path:          "lib.rs",
			content:       "pub struct Widget {\n    id: u32,\n}\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "Widget",
		},
		{
			name:          "C function",
			path:          "main.c",
			content:       "int add(int a, int b) {\n  return a + b;\n}\n",
			wantEntity:    string(EntityFunction),
			wantEntityKey: "add",
		},
		{
			name:          "C++ class",
			path:          "widget.cpp",
			content:       "class Widget {\npublic:\n  void render();\n};\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "Widget",
		},
		{
			name:          "Ruby class",
			path:          "widget.rb",
			content:       "class Widget\n  def render\n  end\nend\n",
			wantEntity:    string(EntityClass),
			wantEntityKey: "Widget",
		},
		{
			name:          "JavaScript function",
			path:          "app.js",
			content:       "function greet(name) {\n  console.log(name);\n}\n",
			wantEntity:    string(EntityFunction),
			wantEntityKey: "greet",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := parseSource(t, tc.path, tc.content)
			if !result.Success {
				t.Fatalf("expected success, got errors: %+v", result.Errors)
			}

			var found bool
			for _, e := range result.Entities {
				if string(e.Kind) == tc.wantEntity && e.Name == tc.wantEntityKey {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected a %s entity named %q, got entities: %+v", tc.wantEntity, tc.wantEntityKey, result.Entities)
			}
		})
	}
}

func TestParseFileEmptyFile(t *testing.T) {
	result := parseSource(t, "empty.go", "")
	if !result.Success {
		t.Fatalf("expected empty file to parse successfully, got: %+v", result.Errors)
	}
	if len(result.Entities) != 0 || len(result.Imports) != 0 || len(result.Exports) != 0 || len(result.Calls) != 0 {
		t.Errorf("expected all-empty streams for an empty file, got %+v", result)
	}
}

func TestParseFileRecoversFromSyntaxErrors(t *testing.T) {
	result := parseSource(t, "broken.go", "package main\n\nfunc broken( {\n")
	if !result.Success {
		t.Fatalf("a syntax error should still produce a successful, partial result: %+v", result.Errors)
	}
	if len(result.Errors) == 0 {
		t.Error("expected at least one recoverable syntax ParseError")
	}
	for _, e := range result.Errors {
		if !e.Recoverable {
			t.Errorf("expected syntax errors to be recoverable, got %+v", e)
		}
	}
}

func TestParseFileRejectsOversizedInput(t *testing.T) {
	registry := NewLanguageRegistry()
	opts := DefaultOptions()
	opts.MaxFileSizeBytes = 8

	_, err := ParseFile(context.Background(), registry, []byte("package main\n"), "main.go", opts)
	if err == nil {
		t.Fatal("expected an error for a file exceeding MaxFileSizeBytes")
	}
	if !IsFileTooLarge(err) {
		t.Errorf("expected IsFileTooLarge(err) to be true, got %v", err)
	}
}

func TestParseFileRejectsUnsupportedLanguage(t *testing.T) {
	registry := NewLanguageRegistry()
	_, err := ParseFile(context.Background(), registry, []byte("whatever"), "notes.txt", DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
	if !IsLanguageNotSupported(err) {
		t.Errorf("expected IsLanguageNotSupported(err) to be true, got %v", err)
	}
}

func TestParseFileTimesOut(t *testing.T) {
	registry := NewLanguageRegistry()
	opts := DefaultOptions()
	opts.ParseTimeout = time.Nanosecond

	_, err := ParseFile(context.Background(), registry, []byte("package main\n\nfunc main() {}\n"), "main.go", opts)
	if err == nil {
		t.Fatal("expected a timeout error with an effectively zero budget")
	}
	if !IsParseTimeout(err) {
		t.Errorf("expected IsParseTimeout(err) to be true, got %v", err)
	}
}

func TestParseFileIsIdempotent(t *testing.T) {
	content := "package main\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"
	first := parseSource(t, "main.go", content)
	second := parseSource(t, "main.go", content)

	if len(first.Entities) != len(second.Entities) || len(first.Calls) != len(second.Calls) {
		t.Fatalf("expected identical input to produce identical entity/call counts, got %d/%d vs %d/%d",
			len(first.Entities), len(first.Calls), len(second.Entities), len(second.Calls))
	}
	if first.Entities[0].Name != second.Entities[0].Name {
		t.Errorf("expected identical entity names across calls, got %q vs %q", first.Entities[0].Name, second.Entities[0].Name)
	}
}

func TestWarmUpLoadsEveryGrammar(t *testing.T) {
	registry := NewLanguageRegistry()
	if err := registry.WarmUp(context.Background()); err != nil {
		t.Fatalf("WarmUp failed: %v", err)
	}

	for _, ext := range registry.SupportedExtensions() {
		if !strings.HasPrefix(ext, ".") {
			t.Errorf("SupportedExtensions returned %q without a leading dot", ext)
		}
	}
}
