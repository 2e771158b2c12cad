package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// cExtractor and cppExtractor implement Extractor for C and C++ (§4.3: "C++
// | C table ∪ class_specifier -> class (namespaces and template wrappers
// are traversed, not emitted)"). They share every helper below; cppExtractor
// additionally emits class_specifier entities.
type cExtractor struct{}
type cppExtractor struct{}

func (cExtractor) Entities(ctx *extractCtx) []CodeEntity   { return cFamilyEntities(ctx, false) }
func (cppExtractor) Entities(ctx *extractCtx) []CodeEntity { return cFamilyEntities(ctx, true) }

func (cExtractor) Imports(ctx *extractCtx) []ImportInfo   { return cFamilyImports(ctx) }
func (cppExtractor) Imports(ctx *extractCtx) []ImportInfo { return cFamilyImports(ctx) }

func (cExtractor) Exports(ctx *extractCtx) []ExportInfo   { return []ExportInfo{} }
func (cppExtractor) Exports(ctx *extractCtx) []ExportInfo { return []ExportInfo{} }

func (cExtractor) Calls(ctx *extractCtx) []CallInfo   { return cFamilyCalls(ctx) }
func (cppExtractor) Calls(ctx *extractCtx) []CallInfo { return cFamilyCalls(ctx) }

func cFamilyEntities(ctx *extractCtx, cpp bool) []CodeEntity {
	var out []CodeEntity
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			if e, ok := cFunctionEntity(n, ctx); ok {
				out = append(out, e)
			}
		case "struct_specifier", "union_specifier":
			if e, ok := cTypeSpecEntity(n, ctx, EntityClass); ok {
				out = append(out, e)
			}
		case "enum_specifier":
			if e, ok := cTypeSpecEntity(n, ctx, EntityEnum); ok {
				out = append(out, e)
			}
		case "type_definition":
			out = append(out, cTypedefEntities(n, ctx)...)
		case "class_specifier":
			if cpp {
				if e, ok := cTypeSpecEntity(n, ctx, EntityClass); ok {
					out = append(out, e)
				}
			}
		}
		return true
	})
	return out
}

// cDeclaratorName drills through pointer/array/function/parenthesized
// declarator wrappers down to the innermost identifier (§4.3.1: "falling
// back to declarator sub-walks for C/C++ (pointers, arrays, parenthesized
// declarators)").
func cDeclaratorName(n *sitter.Node, content []byte) string {
	for n != nil {
		switch n.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			return nodeText(n, content)
		default:
			if d := n.ChildByFieldName("declarator"); d != nil {
				n = d
				continue
			}
			return ""
		}
	}
	return ""
}

func cFunctionEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	name := cDeclaratorName(n.ChildByFieldName("declarator"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		ReturnType: nodeText(n.ChildByFieldName("type"), ctx.content),
	}
	if declarator := n.ChildByFieldName("declarator"); declarator != nil {
		if fd := cFindFunctionDeclarator(declarator); fd != nil {
			meta.Parameters = cParameters(fd.ChildByFieldName("parameters"), ctx.content)
		}
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = cDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        EntityFunction,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  true,
		Metadata:    meta,
	}, true
}

func cFindFunctionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		if n.Kind() == "function_declarator" {
			return n
		}
		n = n.ChildByFieldName("declarator")
	}
	return nil
}

func cTypeSpecEntity(n *sitter.Node, ctx *extractCtx, kind EntityKind) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = cDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        kind,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  true,
		Metadata:    meta,
	}, true
}

func cTypedefEntities(n *sitter.Node, ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	doc := ""
	if ctx.opts.ExtractDocumentation {
		doc = cDocComment(n, ctx.content)
	}

	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier", "pointer_declarator", "array_declarator", "function_declarator", "parenthesized_declarator":
			name := cDeclaratorName(c, ctx.content)
			if name == "" {
				continue
			}
			out = append(out, CodeEntity{
				Kind:        EntityTypeAlias,
				Name:        name,
				Path:        ctx.path,
				LineStart:   lineStart,
				LineEnd:     lineEnd,
				ColumnStart: colStart,
				ColumnEnd:   colEnd,
				IsExported:  true,
				Metadata:    EntityMetadata{Documentation: doc},
			})
		}
	}
	return out
}

// cParameters expands a parameter_list; a bare "..." token becomes a single
// rest parameter (§4.3.1 C/C++ row).
func cParameters(params *sitter.Node, content []byte) []ParameterInfo {
	if params == nil {
		return nil
	}
	var out []ParameterInfo
	count := params.ChildCount()
	for i := uint(0); i < count; i++ {
		p := params.Child(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "parameter_declaration":
			name := "<unnamed>"
			if d := p.ChildByFieldName("declarator"); d != nil {
				if dn := cDeclaratorName(d, content); dn != "" {
					name = dn
				}
			}
			out = append(out, ParameterInfo{
				Name: name,
				Type: nodeText(p.ChildByFieldName("type"), content),
			})
		case "...":
			out = append(out, ParameterInfo{Name: "...", IsRest: true})
		}
	}
	return out
}

// cDocComment collects a preceding "/** */"/"/*! */" block comment or a
// contiguous run of "///"/"//!" line comments (§4.3.1 C/C++ row).
func cDocComment(n *sitter.Node, content []byte) string {
	var lines []string
	sib := n.PrevSibling()
	for sib != nil && sib.Kind() == "comment" {
		text := strings.TrimSpace(nodeText(sib, content))
		switch {
		case strings.HasPrefix(text, "/**") || strings.HasPrefix(text, "/*!"):
			return trimDocMarkers(text)
		case strings.HasPrefix(text, "///"):
			lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "///"))}, lines...)
			sib = sib.PrevSibling()
		case strings.HasPrefix(text, "//!"):
			lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "//!"))}, lines...)
			sib = sib.PrevSibling()
		default:
			return trimDocMarkers(strings.Join(lines, "\n"))
		}
	}
	return trimDocMarkers(strings.Join(lines, "\n"))
}

func cFamilyImports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() == "preproc_include" {
			out = append(out, cIncludeInfo(n, ctx.content))
		}
		return true
	})
	return out
}

func cIncludeInfo(n *sitter.Node, content []byte) ImportInfo {
	pathNode := childByFieldNameAny(n, "path")
	raw := nodeText(pathNode, content)
	isRelative := strings.HasPrefix(raw, "\"")
	trimmed := strings.Trim(raw, "<>\"")
	base := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		base = trimmed[idx+1:]
	}
	pos := n.StartPosition()
	return ImportInfo{
		Source:        trimmed,
		ImportedNames: []string{base},
		IsRelative:    isRelative,
		IsSideEffect:  true,
		Line:          int(pos.Row) + 1,
	}
}

func cFamilyCalls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "function_definition":
			if name := cDeclaratorName(n.ChildByFieldName("declarator"), ctx.content); name != "" {
				caller = name
			}
		case "call_expression":
			out = append(out, cCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func cCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	fn := n.ChildByFieldName("function")
	pos := n.StartPosition()
	name, expr := cResolveCallTarget(fn, content)
	info := CallInfo{
		CalledName:       name,
		CalledExpression: expr,
		Line:             int(pos.Row) + 1,
		Column:           int(pos.Column),
	}
	if caller != "" {
		info.CallerName = caller
	}
	return info
}

// cResolveCallTarget implements the C/C++ branch of §4.3.4's
// target-resolution switch, including C++ qualified identifiers
// (last "::" segment).
func cResolveCallTarget(fn *sitter.Node, content []byte) (name, expr string) {
	if fn == nil {
		return "", ""
	}
	expr = nodeText(fn, content)

	switch fn.Kind() {
	case "identifier", "field_identifier":
		return expr, expr
	case "field_expression":
		argument := fn.ChildByFieldName("argument")
		field := fn.ChildByFieldName("field")
		if argument != nil && argument.Kind() == "call_expression" {
			return CallChained, expr
		}
		return nodeText(field, content), expr
	case "qualified_identifier":
		return nodeText(fn.ChildByFieldName("name"), content), expr
	case "parenthesized_expression":
		inner := findFirstChild(fn, "identifier", "field_expression", "qualified_identifier", "call_expression")
		n2, _ := cResolveCallTarget(inner, content)
		return n2, expr
	default:
		return CallDynamic, expr
	}
}
