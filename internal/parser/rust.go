package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustExtractor implements Extractor for Rust source (§4.3 Rust column).
type rustExtractor struct{}

func (rustExtractor) Entities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_item":
			if e, ok := rustFunctionEntity(n, ctx); ok {
				out = append(out, e)
			}
		case "struct_item":
			if e, ok := rustSimpleEntity(n, ctx, EntityClass); ok {
				out = append(out, e)
			}
		case "enum_item":
			if e, ok := rustSimpleEntity(n, ctx, EntityEnum); ok {
				out = append(out, e)
			}
		case "trait_item":
			if e, ok := rustSimpleEntity(n, ctx, EntityInterface); ok {
				out = append(out, e)
			}
		case "type_item":
			if e, ok := rustSimpleEntity(n, ctx, EntityTypeAlias); ok {
				out = append(out, e)
			}
		case "const_item", "static_item":
			if e, ok := rustSimpleEntity(n, ctx, EntityVariable); ok {
				out = append(out, e)
			}
		}
		return true
	})
	return out
}

func rustIsExported(n *sitter.Node) bool {
	return hasChildOfType(n, "visibility_modifier")
}

func rustFunctionEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsAsync:    rustIsAsync(n),
		Parameters: rustParameters(n.ChildByFieldName("parameters"), ctx.content),
		ReturnType: nodeText(n.ChildByFieldName("return_type"), ctx.content),
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		meta.TypeParameters = rustTypeParamNames(tp, ctx.content)
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = rustDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        EntityFunction,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  rustIsExported(n),
		Metadata:    meta,
	}, true
}

func rustSimpleEntity(n *sitter.Node, ctx *extractCtx, kind EntityKind) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		meta.TypeParameters = rustTypeParamNames(tp, ctx.content)
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = rustDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        kind,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  rustIsExported(n),
		Metadata:    meta,
	}, true
}

func rustIsAsync(n *sitter.Node) bool {
	if mods := findFirstChild(n, "function_modifiers"); mods != nil {
		return hasChildOfType(mods, "async")
	}
	return hasChildOfType(n, "async")
}

// rustParameters expands a Rust parameters node; self forms retain their
// textual reference decorators ("&", "&mut") as Type (§4.3.1 Rust row).
func rustParameters(params *sitter.Node, content []byte) []ParameterInfo {
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
		case "self_parameter":
			text := strings.TrimSpace(nodeText(p, content))
			decor := strings.TrimSpace(strings.TrimSuffix(text, "self"))
			out = append(out, ParameterInfo{Name: "self", Type: decor})
		case "parameter":
			out = append(out, ParameterInfo{
				Name: nodeText(p.ChildByFieldName("pattern"), content),
				Type: nodeText(p.ChildByFieldName("type"), content),
			})
		case "variadic_parameter":
			out = append(out, ParameterInfo{IsRest: true})
		}
	}
	return out
}

func rustTypeParamNames(tp *sitter.Node, content []byte) []string {
	var out []string
	count := tp.ChildCount()
	for i := uint(0); i < count; i++ {
		c := tp.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "lifetime", "type_identifier", "constrained_type_parameter", "const_parameter", "optional_type_parameter":
			out = append(out, nodeText(c, content))
		}
	}
	return out
}

// rustDocComment collects contiguous "///"/"//!" line comments, or a single
// "/** */"/"/*! */" block comment, skipping over interleaved attribute
// items (§4.3.1 Rust row).
func rustDocComment(n *sitter.Node, content []byte) string {
	var lines []string
	sib := n.PrevSibling()
	for sib != nil {
		switch sib.Kind() {
		case "attribute_item":
			sib = sib.PrevSibling()
			continue
		case "line_comment":
			text := strings.TrimSpace(nodeText(sib, content))
			if strings.HasPrefix(text, "///") {
				lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "///"))}, lines...)
				sib = sib.PrevSibling()
				continue
			}
			if strings.HasPrefix(text, "//!") {
				lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "//!"))}, lines...)
				sib = sib.PrevSibling()
				continue
			}
			return trimDocMarkers(strings.Join(lines, "\n"))
		case "block_comment":
			text := strings.TrimSpace(nodeText(sib, content))
			if strings.HasPrefix(text, "/**") || strings.HasPrefix(text, "/*!") {
				lines = append([]string{text}, lines...)
			}
			return trimDocMarkers(strings.Join(lines, "\n"))
		default:
			return trimDocMarkers(strings.Join(lines, "\n"))
		}
	}
	return trimDocMarkers(strings.Join(lines, "\n"))
}

func (rustExtractor) Imports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() != "use_declaration" {
			return true
		}
		argument := n.ChildByFieldName("argument")
		pos := n.StartPosition()
		entries := rustExpandUseTree(argument, "", ctx.content)
		for i := range entries {
			entries[i].Line = int(pos.Row) + 1
		}
		out = append(out, entries...)
		return true
	})
	return out
}

func rustExpandUseTree(n *sitter.Node, prefix string, content []byte) []ImportInfo {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "scoped_identifier", "crate", "self", "super":
		path := rustJoinPath(prefix, nodeText(n, content))
		return []ImportInfo{{
			Source:        path,
			ImportedNames: []string{rustLastSegment(path)},
			IsRelative:    rustIsRelativePath(path),
		}}
	case "use_as_clause":
		pathNode := n.ChildByFieldName("path")
		alias := nodeText(n.ChildByFieldName("alias"), content)
		path := rustJoinPath(prefix, nodeText(pathNode, content))
		original := rustLastSegment(path)
		return []ImportInfo{{
			Source:        path,
			ImportedNames: []string{original},
			Aliases:       map[string]string{original: alias},
			IsRelative:    rustIsRelativePath(path),
		}}
	case "use_wildcard":
		path := prefix
		if pathNode := n.ChildByFieldName("path"); pathNode != nil {
			path = rustJoinPath(prefix, nodeText(pathNode, content))
		}
		return []ImportInfo{{
			Source:          path,
			ImportedNames:   []string{},
			NamespaceImport: "*",
			IsSideEffect:    true,
			IsRelative:      rustIsRelativePath(path),
		}}
	case "scoped_use_list":
		pathNode := n.ChildByFieldName("path")
		listNode := n.ChildByFieldName("list")
		newPrefix := rustJoinPath(prefix, nodeText(pathNode, content))
		return rustExpandUseTree(listNode, newPrefix, content)
	case "use_list":
		var out []ImportInfo
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			c := n.Child(i)
			if c == nil || !c.IsNamed() {
				continue
			}
			out = append(out, rustExpandUseTree(c, prefix, content)...)
		}
		return out
	default:
		return nil
	}
}

func rustJoinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	if seg == "" {
		return prefix
	}
	return prefix + "::" + seg
}

func rustLastSegment(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx == -1 {
		return path
	}
	return path[idx+2:]
}

func rustIsRelativePath(path string) bool {
	return strings.HasPrefix(path, "crate") || strings.HasPrefix(path, "self") || strings.HasPrefix(path, "super")
}

func (rustExtractor) Exports(ctx *extractCtx) []ExportInfo {
	return []ExportInfo{}
}

func (rustExtractor) Calls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "function_item":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "call_expression":
			out = append(out, rustCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func rustCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	fn := n.ChildByFieldName("function")
	pos := n.StartPosition()
	name, expr := rustResolveCallTarget(fn, content)
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

// rustResolveCallTarget implements the Rust branch of §4.3.4's
// target-resolution switch, including scoped identifiers (last segment)
// and generic functions (recurse on the function child).
func rustResolveCallTarget(fn *sitter.Node, content []byte) (name, expr string) {
	if fn == nil {
		return "", ""
	}
	expr = nodeText(fn, content)

	switch fn.Kind() {
	case "identifier":
		return expr, expr
	case "field_expression":
		value := fn.ChildByFieldName("value")
		field := fn.ChildByFieldName("field")
		if value != nil && value.Kind() == "call_expression" {
			return CallChained, expr
		}
		return nodeText(field, content), expr
	case "scoped_identifier":
		return rustLastSegment(expr), expr
	case "generic_function":
		inner := fn.ChildByFieldName("function")
		n2, _ := rustResolveCallTarget(inner, content)
		return n2, expr
	case "parenthesized_expression":
		inner := findFirstChild(fn, "identifier", "field_expression", "scoped_identifier", "call_expression")
		n2, _ := rustResolveCallTarget(inner, content)
		return n2, expr
	default:
		return CallDynamic, expr
	}
}
