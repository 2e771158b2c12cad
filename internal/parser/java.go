package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaExtractor implements Extractor for Java source (§4.3 Java column).
type javaExtractor struct{}

func (javaExtractor) Entities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
			if e, ok := javaNamedEntity(n, ctx, EntityClass); ok {
				out = append(out, e)
			}
		case "interface_declaration":
			if e, ok := javaNamedEntity(n, ctx, EntityInterface); ok {
				out = append(out, e)
			}
		case "enum_declaration":
			if e, ok := javaNamedEntity(n, ctx, EntityEnum); ok {
				out = append(out, e)
			}
		case "method_declaration", "constructor_declaration":
			if e, ok := javaNamedEntity(n, ctx, EntityMethod); ok {
				out = append(out, e)
			}
		case "field_declaration":
			out = append(out, javaFieldEntities(n, ctx)...)
		}
		return true
	})
	return out
}

func javaNamedEntity(n *sitter.Node, ctx *extractCtx, kind EntityKind) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	isStatic, isAbstract := javaModifierFlags(n)
	meta := EntityMetadata{IsStatic: isStatic, IsAbstract: isAbstract}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		meta.TypeParameters = tsjsTypeParamNames(tp, ctx.content)
	}

	switch n.Kind() {
	case "class_declaration":
		if super := n.ChildByFieldName("superclass"); super != nil {
			meta.Extends = javaSuperclassType(super, ctx.content)
		}
		if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
			meta.Implements = javaTypeList(ifaces, ctx.content)
		}
	case "interface_declaration":
		if ext := childByFieldNameAny(n, "extends", "interfaces"); ext != nil {
			meta.Implements = javaTypeList(ext, ctx.content)
		} else if ext := findFirstChild(n, "extends_interfaces", "super_interfaces"); ext != nil {
			meta.Implements = javaTypeList(ext, ctx.content)
		}
	case "method_declaration":
		meta.Parameters = javaParameters(n.ChildByFieldName("parameters"), ctx.content)
		meta.ReturnType = nodeText(n.ChildByFieldName("type"), ctx.content)
	case "constructor_declaration":
		meta.Parameters = javaParameters(n.ChildByFieldName("parameters"), ctx.content)
	}

	if ctx.opts.ExtractDocumentation {
		meta.Documentation = javaDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        kind,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  false,
		Metadata:    meta,
	}, true
}

func javaFieldEntities(n *sitter.Node, ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	isStatic, isAbstract := javaModifierFlags(n)
	typeNode := n.ChildByFieldName("type")
	typeText := nodeText(typeNode, ctx.content)
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	doc := ""
	if ctx.opts.ExtractDocumentation {
		doc = javaDocComment(n, ctx.content)
	}

	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil || c.Kind() != "variable_declarator" {
			continue
		}
		name := nodeText(c.ChildByFieldName("name"), ctx.content)
		if name == "" {
			continue
		}
		out = append(out, CodeEntity{
			Kind:        EntityProperty,
			Name:        name,
			Path:        ctx.path,
			LineStart:   lineStart,
			LineEnd:     lineEnd,
			ColumnStart: colStart,
			ColumnEnd:   colEnd,
			IsExported:  false,
			Metadata: EntityMetadata{
				IsStatic:      isStatic,
				IsAbstract:    isAbstract,
				ReturnType:    typeText,
				Documentation: doc,
			},
		})
	}
	return out
}

func javaModifierFlags(n *sitter.Node) (isStatic, isAbstract bool) {
	mods := childByFieldNameAny(n, "modifiers")
	if mods == nil {
		return
	}
	count := mods.ChildCount()
	for i := uint(0); i < count; i++ {
		c := mods.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "static":
			isStatic = true
		case "abstract":
			isAbstract = true
		}
	}
	return
}

func javaSuperclassType(n *sitter.Node, content []byte) string {
	count := n.ChildCount()
	for i := int(count) - 1; i >= 0; i-- {
		c := n.Child(uint(i))
		if c != nil && c.Kind() != "extends" {
			return nodeText(c, content)
		}
	}
	return ""
}

func javaTypeList(n *sitter.Node, content []byte) []string {
	if n == nil {
		return nil
	}
	var out []string
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "type_list":
			lc := c.ChildCount()
			for j := uint(0); j < lc; j++ {
				t := c.Child(j)
				if t != nil && isJavaTypeNode(t.Kind()) {
					out = append(out, nodeText(t, content))
				}
			}
		default:
			if isJavaTypeNode(c.Kind()) {
				out = append(out, nodeText(c, content))
			}
		}
	}
	return out
}

func isJavaTypeNode(kind string) bool {
	switch kind {
	case "type_identifier", "generic_type", "scoped_type_identifier":
		return true
	}
	return false
}

func javaParameters(params *sitter.Node, content []byte) []ParameterInfo {
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
		case "formal_parameter":
			out = append(out, ParameterInfo{
				Name: nodeText(p.ChildByFieldName("name"), content),
				Type: nodeText(p.ChildByFieldName("type"), content),
			})
		case "spread_parameter":
			out = append(out, ParameterInfo{
				Name:   nodeText(p.ChildByFieldName("name"), content),
				Type:   nodeText(p.ChildByFieldName("type"), content),
				IsRest: true,
			})
		}
	}
	return out
}

// javaDocComment looks for a preceding Javadoc "/** ... */" block comment.
func javaDocComment(n *sitter.Node, content []byte) string {
	cand := n.PrevSibling()
	if cand == nil {
		return ""
	}
	switch cand.Kind() {
	case "comment", "block_comment":
	default:
		return ""
	}
	text := strings.TrimSpace(nodeText(cand, content))
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return trimDocMarkers(text)
}

func (javaExtractor) Imports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() == "import_declaration" {
			out = append(out, javaImportDeclaration(n, ctx.content))
		}
		return true
	})
	return out
}

func javaImportDeclaration(n *sitter.Node, content []byte) ImportInfo {
	isStatic := hasChildOfType(n, "static")
	pathNode := findFirstChild(n, "scoped_identifier", "identifier")
	source := nodeText(pathNode, content)
	text := nodeText(n, content)

	pos := n.StartPosition()
	info := ImportInfo{
		Source:        source,
		ImportedNames: []string{},
		Line:          int(pos.Row) + 1,
		IsTypeOnly:    !isStatic,
	}
	if hasChildOfType(n, "asterisk") || strings.Contains(text, ".*") {
		info.ImportedNames = []string{"*"}
	}
	return info
}

func (javaExtractor) Exports(ctx *extractCtx) []ExportInfo {
	return []ExportInfo{}
}

func (javaExtractor) Calls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "method_declaration", "constructor_declaration":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "method_invocation", "object_creation_expression":
			out = append(out, javaCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func javaCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	pos := n.StartPosition()
	var name, expr string

	switch n.Kind() {
	case "object_creation_expression":
		typeNode := n.ChildByFieldName("type")
		name = nodeText(typeNode, content)
		expr = "new " + name
	case "method_invocation":
		name = nodeText(n.ChildByFieldName("name"), content)
		object := n.ChildByFieldName("object")
		args := n.ChildByFieldName("arguments")
		if object != nil {
			if object.Kind() == "method_invocation" {
				name = CallChained
			}
			expr = textBefore(n, args, content)
		} else {
			expr = name
		}
	}

	info := CallInfo{CalledName: name, CalledExpression: expr, Line: int(pos.Row) + 1, Column: int(pos.Column)}
	if caller != "" {
		info.CallerName = caller
	}
	return info
}

// textBefore returns n's source text truncated at stop's start byte,
// trimmed — used to recover "object.method" without the argument list.
func textBefore(n, stop *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	if stop == nil || stop.StartByte() <= n.StartByte() || stop.StartByte() > n.EndByte() {
		return nodeText(n, content)
	}
	return strings.TrimSpace(string(content[n.StartByte():stop.StartByte()]))
}
