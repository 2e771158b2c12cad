package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonExtractor implements Extractor for Python source (§4.3 Python
// column).
type pythonExtractor struct{}

func (pythonExtractor) Entities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	var recurse func(n *sitter.Node)
	recurse = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "decorated_definition":
			if inner := findFirstChild(n, "function_definition", "class_definition"); inner != nil {
				recurse(inner)
				return
			}
		case "function_definition":
			if e, ok := pythonFunctionEntity(n, ctx); ok {
				out = append(out, e)
			}
		case "class_definition":
			if e, ok := pythonClassEntity(n, ctx); ok {
				out = append(out, e)
			}
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			recurse(n.Child(i))
		}
	}
	recurse(ctx.root)
	return out
}

func pythonFunctionEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsAsync:    hasChildOfType(n, "async"),
		Parameters: pythonParameters(n.ChildByFieldName("parameters"), ctx.content),
		ReturnType: nodeText(n.ChildByFieldName("return_type"), ctx.content),
	}
	if ctx.opts.ExtractDocumentation {
		if doc, ok := firstStringLiteralStatement(n.ChildByFieldName("body"), ctx.content); ok {
			meta.Documentation = trimDocMarkers(stripQuotes(pythonStripStringPrefix(doc)))
		}
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

func pythonClassEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if super := n.ChildByFieldName("superclasses"); super != nil {
		bases := pythonArgumentList(super, ctx.content)
		if len(bases) > 0 {
			meta.Extends = bases[0]
			if len(bases) > 1 {
				meta.Implements = bases[1:]
			}
		}
	}
	if ctx.opts.ExtractDocumentation {
		if doc, ok := firstStringLiteralStatement(n.ChildByFieldName("body"), ctx.content); ok {
			meta.Documentation = trimDocMarkers(stripQuotes(pythonStripStringPrefix(doc)))
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
		IsExported:  true,
		Metadata:    meta,
	}, true
}

// pythonArgumentList reads the textual base-class list out of a class
// definition's argument_list node.
func pythonArgumentList(argList *sitter.Node, content []byte) []string {
	var names []string
	count := argList.ChildCount()
	for i := uint(0); i < count; i++ {
		c := argList.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier", "attribute", "subscript":
			names = append(names, nodeText(c, content))
		}
	}
	return names
}

// pythonStripStringPrefix removes a leading string-literal prefix ("r", "f",
// "b", "u", or combinations) so the docstring body can be dequoted cleanly.
func pythonStripStringPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] != '"' && s[i] != '\'' {
		i++
	}
	return s[i:]
}

// pythonParameters expands a Python parameters node per §4.3.1: identifiers,
// typed/default/typed-default parameters, splats; self/cls suppressed.
func pythonParameters(params *sitter.Node, content []byte) []ParameterInfo {
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
		case "identifier":
			name := nodeText(p, content)
			if name == "self" || name == "cls" {
				continue
			}
			out = append(out, ParameterInfo{Name: name})
		case "typed_parameter":
			name := nodeText(findFirstChild(p, "identifier"), content)
			if name == "self" || name == "cls" {
				continue
			}
			out = append(out, ParameterInfo{Name: name, Type: nodeText(p.ChildByFieldName("type"), content)})
		case "default_parameter":
			name := nodeText(p.ChildByFieldName("name"), content)
			out = append(out, ParameterInfo{Name: name, HasDefault: true})
		case "typed_default_parameter":
			name := nodeText(p.ChildByFieldName("name"), content)
			out = append(out, ParameterInfo{
				Name:       name,
				Type:       nodeText(p.ChildByFieldName("type"), content),
				HasDefault: true,
			})
		case "list_splat_pattern":
			out = append(out, ParameterInfo{Name: nodeText(findFirstChild(p, "identifier"), content), IsRest: true})
		case "dictionary_splat_pattern":
			out = append(out, ParameterInfo{Name: nodeText(findFirstChild(p, "identifier"), content), IsRest: true})
		}
	}
	return out
}

func (pythonExtractor) Imports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			out = append(out, pythonImportPlain(n, ctx.content)...)
		case "import_from_statement":
			out = append(out, pythonImportFrom(n, ctx.content))
		}
		return true
	})
	return out
}

func pythonImportPlain(n *sitter.Node, content []byte) []ImportInfo {
	var out []ImportInfo
	pos := n.StartPosition()
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "dotted_name":
			out = append(out, ImportInfo{Source: nodeText(c, content), ImportedNames: []string{}, Line: int(pos.Row) + 1})
		case "aliased_import":
			source := nodeText(c.ChildByFieldName("name"), content)
			info := ImportInfo{Source: source, ImportedNames: []string{source}, Line: int(pos.Row) + 1}
			if alias := c.ChildByFieldName("alias"); alias != nil {
				info.Aliases = map[string]string{source: nodeText(alias, content)}
			}
			out = append(out, info)
		}
	}
	return out
}

func pythonImportFrom(n *sitter.Node, content []byte) ImportInfo {
	moduleNode := n.ChildByFieldName("module_name")
	source := nodeText(moduleNode, content)
	isRelative := strings.HasPrefix(source, ".")
	if moduleNode != nil && moduleNode.Kind() == "relative_import" {
		isRelative = true
	}

	pos := n.StartPosition()
	info := ImportInfo{Source: source, ImportedNames: []string{}, IsRelative: isRelative, Line: int(pos.Row) + 1}

	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil || sameSpan(c, moduleNode) {
			continue
		}
		switch c.Kind() {
		case "wildcard_import":
			info.ImportedNames = []string{"*"}
		case "dotted_name":
			info.ImportedNames = append(info.ImportedNames, nodeText(c, content))
		case "aliased_import":
			name := nodeText(c.ChildByFieldName("name"), content)
			info.ImportedNames = append(info.ImportedNames, name)
			if alias := c.ChildByFieldName("alias"); alias != nil {
				if info.Aliases == nil {
					info.Aliases = map[string]string{}
				}
				info.Aliases[name] = nodeText(alias, content)
			}
		}
	}
	return info
}

func sameSpan(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func (pythonExtractor) Exports(ctx *extractCtx) []ExportInfo {
	return []ExportInfo{}
}

func (pythonExtractor) Calls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "function_definition":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "call":
			out = append(out, pythonCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func pythonCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	fn := n.ChildByFieldName("function")
	pos := n.StartPosition()
	name, expr := pythonResolveCallTarget(fn, content)
	info := CallInfo{
		CalledName:       name,
		CalledExpression: expr,
		Line:             int(pos.Row) + 1,
		Column:           int(pos.Column),
	}
	if parent := n.Parent(); parent != nil && parent.Kind() == "await" {
		info.IsAsync = true
	}
	if caller != "" {
		info.CallerName = caller
	}
	return info
}

func pythonResolveCallTarget(fn *sitter.Node, content []byte) (name, expr string) {
	if fn == nil {
		return "", ""
	}
	expr = nodeText(fn, content)

	switch fn.Kind() {
	case "identifier":
		return expr, expr
	case "attribute":
		object := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if object != nil && object.Kind() == "call" {
			return CallChained, expr
		}
		return nodeText(attr, content), expr
	case "subscript":
		indices := fn.ChildByFieldName("subscript")
		if indices != nil && indices.Kind() == "string" {
			return stripQuotes(nodeText(indices, content)), expr
		}
		return CallIndexed, expr
	case "parenthesized_expression":
		inner := findFirstChild(fn, "identifier", "attribute", "call", "subscript")
		n2, _ := pythonResolveCallTarget(inner, content)
		return n2, expr
	default:
		return CallDynamic, expr
	}
}
