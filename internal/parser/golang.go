package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// goExtractor implements Extractor for Go source (§4.3, Go column of
// every per-language table).
type goExtractor struct{}

func (goExtractor) Entities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			if e, ok := goFunctionEntity(n, ctx, EntityFunction); ok {
				out = append(out, e)
			}
		case "method_declaration":
			if e, ok := goFunctionEntity(n, ctx, EntityMethod); ok {
				out = append(out, e)
			}
		case "type_declaration":
			count := n.ChildCount()
			for i := uint(0); i < count; i++ {
				spec := n.Child(i)
				if spec == nil || spec.Kind() != "type_spec" {
					continue
				}
				if e, ok := goTypeEntity(spec, n, ctx); ok {
					out = append(out, e)
				}
			}
		}
		return true
	})
	return out
}

func goFunctionEntity(n *sitter.Node, ctx *extractCtx, kind EntityKind) (CodeEntity, bool) {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		Parameters: goParameters(n.ChildByFieldName("parameters"), ctx.content),
		ReturnType: nodeText(n.ChildByFieldName("result"), ctx.content),
	}

	if kind == EntityMethod {
		if recv := n.ChildByFieldName("receiver"); recv != nil {
			meta.Extends = goReceiverType(recv, ctx.content)
		}
	}

	if ctx.opts.ExtractDocumentation {
		meta.Documentation = goDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        kind,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  isUppercaseFirst(name),
		Metadata:    meta,
	}, true
}

func goTypeEntity(spec, decl *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	nameNode := spec.ChildByFieldName("name")
	name := nodeText(nameNode, ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(spec)
	meta := EntityMetadata{}
	if ctx.opts.ExtractDocumentation {
		// A single type_spec inside a grouped declaration documents itself;
		// a standalone declaration's doc sits above the type_declaration.
		if decl.ChildCount() <= 3 {
			meta.Documentation = goDocComment(decl, ctx.content)
		} else {
			meta.Documentation = goDocComment(spec, ctx.content)
		}
	}

	return CodeEntity{
		Kind:        EntityClass,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  isUppercaseFirst(name),
		Metadata:    meta,
	}, true
}

// goReceiverType returns the receiver's declared type text, stripping the
// parameter name and parens (e.g. "(s *Server)" -> "*Server").
func goReceiverType(recv *sitter.Node, content []byte) string {
	param := findFirstChild(recv, "parameter_declaration")
	if param == nil {
		return ""
	}
	typeNode := param.ChildByFieldName("type")
	return nodeText(typeNode, content)
}

// goParameters expands a Go parameter_list into one ParameterInfo per name,
// including shared-type groups ("a, b int") and variadic parameters.
func goParameters(list *sitter.Node, content []byte) []ParameterInfo {
	if list == nil {
		return nil
	}
	var params []ParameterInfo
	count := list.ChildCount()
	for i := uint(0); i < count; i++ {
		decl := list.Child(i)
		if decl == nil {
			continue
		}
		switch decl.Kind() {
		case "parameter_declaration":
			typeNode := decl.ChildByFieldName("type")
			typeText := nodeText(typeNode, content)
			names := goParamNames(decl, content)
			if len(names) == 0 {
				params = append(params, ParameterInfo{Type: typeText})
				continue
			}
			for _, n := range names {
				params = append(params, ParameterInfo{Name: n, Type: typeText})
			}
		case "variadic_parameter_declaration":
			typeNode := decl.ChildByFieldName("type")
			name := nodeText(decl.ChildByFieldName("name"), content)
			params = append(params, ParameterInfo{
				Name:   name,
				Type:   "..." + nodeText(typeNode, content),
				IsRest: true,
			})
		}
	}
	return params
}

// goParamNames collects every identifier name field of a parameter_declaration
// (there may be several for "a, b int").
func goParamNames(decl *sitter.Node, content []byte) []string {
	var names []string
	count := decl.ChildCount()
	for i := uint(0); i < count; i++ {
		c := decl.Child(i)
		if c != nil && c.Kind() == "identifier" {
			names = append(names, nodeText(c, content))
		}
	}
	return names
}

// goDocComment collects the contiguous block of "//" line comments
// immediately preceding node, in source order.
func goDocComment(n *sitter.Node, content []byte) string {
	var lines []string
	sib := n.PrevSibling()
	expectedEndRow := -1
	for sib != nil && sib.Kind() == "comment" {
		text := nodeText(sib, content)
		if !strings.HasPrefix(strings.TrimSpace(text), "//") {
			break
		}
		row := int(sib.StartPosition().Row)
		if expectedEndRow != -1 && row+1 != expectedEndRow {
			break
		}
		lines = append([]string{strings.TrimPrefix(strings.TrimSpace(text), "//")}, lines...)
		expectedEndRow = row
		sib = sib.PrevSibling()
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return trimDocMarkers(strings.Join(lines, "\n"))
}

func (goExtractor) Imports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() != "import_declaration" {
			return true
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "import_spec":
				out = append(out, goImportSpec(child, ctx.content))
			case "import_spec_list":
				specCount := child.ChildCount()
				for j := uint(0); j < specCount; j++ {
					spec := child.Child(j)
					if spec != nil && spec.Kind() == "import_spec" {
						out = append(out, goImportSpec(spec, ctx.content))
					}
				}
			}
		}
		return true
	})
	return out
}

func goImportSpec(spec *sitter.Node, content []byte) ImportInfo {
	pathNode := spec.ChildByFieldName("path")
	source := stripQuotes(nodeText(pathNode, content))
	pos := spec.StartPosition()
	info := ImportInfo{
		Source:        source,
		ImportedNames: []string{},
		Line:          int(pos.Row) + 1,
	}

	nameNode := spec.ChildByFieldName("name")
	if nameNode != nil {
		alias := nodeText(nameNode, content)
		switch alias {
		case "_":
			info.IsSideEffect = true
		case ".":
			info.NamespaceImport = "."
		default:
			info.Aliases = map[string]string{source: alias}
			info.ImportedNames = []string{alias}
		}
	}
	return info
}

func (goExtractor) Exports(ctx *extractCtx) []ExportInfo {
	return []ExportInfo{}
}

func (goExtractor) Calls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var caller string
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "function_declaration":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "method_declaration":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "call_expression":
			out = append(out, goCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, caller)
	return out
}

func goCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	fn := n.ChildByFieldName("function")
	pos := n.StartPosition()
	name, expr := goResolveCallTarget(fn, content)
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

// goResolveCallTarget implements the Go branch of §4.3.4's target-resolution
// switch: plain identifier, selector (field) access, a call through a
// parenthesized pointer dereference ("(*fn)()"), a type assertion used as a
// receiver ("x.(T).M()"), and parenthesized-wrapper unwinding.
func goResolveCallTarget(fn *sitter.Node, content []byte) (name, expr string) {
	if fn == nil {
		return "", ""
	}
	expr = nodeText(fn, content)

	switch fn.Kind() {
	case "identifier":
		return expr, expr
	case "selector_expression":
		operand := fn.ChildByFieldName("operand")
		field := fn.ChildByFieldName("field")
		if operand != nil && operand.Kind() == "call_expression" {
			return CallChained, expr
		}
		if operand != nil && operand.Kind() == "type_assertion_expression" {
			return CallTypeAsserted, expr
		}
		return nodeText(field, content), expr
	case "parenthesized_expression":
		inner := findFirstChild(fn, "unary_expression", "selector_expression", "identifier", "type_assertion_expression")
		if inner != nil && inner.Kind() == "unary_expression" {
			return CallPointer, expr
		}
		n2, _ := goResolveCallTarget(inner, content)
		return n2, expr
	case "type_assertion_expression":
		return CallTypeAssertion, expr
	case "index_expression":
		return CallIndexed, expr
	default:
		return CallDynamic, expr
	}
}
