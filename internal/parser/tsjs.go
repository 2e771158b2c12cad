package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typescriptExtractor and javascriptExtractor share almost all of their
// extraction logic (§4.3 TS/JS column); the grammars differ mainly in
// which TS-only node kinds (interface_declaration, type_alias_declaration,
// enum_declaration) actually occur in a given tree. Both extractors defer
// to the shared tsjs* functions below.
type typescriptExtractor struct{}
type javascriptExtractor struct{}

func (typescriptExtractor) Entities(ctx *extractCtx) []CodeEntity { return tsjsEntities(ctx) }
func (typescriptExtractor) Imports(ctx *extractCtx) []ImportInfo  { return tsjsImports(ctx) }
func (typescriptExtractor) Exports(ctx *extractCtx) []ExportInfo  { return tsjsExports(ctx) }
func (typescriptExtractor) Calls(ctx *extractCtx) []CallInfo      { return tsjsCalls(ctx) }

func (javascriptExtractor) Entities(ctx *extractCtx) []CodeEntity { return tsjsEntities(ctx) }
func (javascriptExtractor) Imports(ctx *extractCtx) []ImportInfo  { return tsjsImports(ctx) }
func (javascriptExtractor) Exports(ctx *extractCtx) []ExportInfo  { return tsjsExports(ctx) }
func (javascriptExtractor) Calls(ctx *extractCtx) []CallInfo      { return tsjsCalls(ctx) }

func tsjsEntities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	var recurse func(n *sitter.Node, exported bool)
	recurse = func(n *sitter.Node, exported bool) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "export_statement":
			if decl := n.ChildByFieldName("declaration"); decl != nil {
				recurse(decl, true)
				return
			}
			// export default <expr>, export { ... }, export * from "...":
			// nothing here is itself a declarable entity.
			return
		case "function_declaration", "function_expression", "generator_function_declaration", "function":
			if e, ok := tsjsFunctionEntity(n, ctx, exported, EntityFunction); ok {
				out = append(out, e)
			}
		case "arrow_function":
			if e, ok := tsjsArrowEntity(n, ctx, exported); ok {
				out = append(out, e)
			}
		case "method_definition":
			if e, ok := tsjsFunctionEntity(n, ctx, exported, EntityMethod); ok {
				out = append(out, e)
			}
		case "class_declaration", "abstract_class_declaration":
			if e, ok := tsjsClassEntity(n, ctx, exported); ok {
				out = append(out, e)
			}
		case "interface_declaration":
			if e, ok := tsjsInterfaceEntity(n, ctx, exported); ok {
				out = append(out, e)
			}
		case "type_alias_declaration":
			if e, ok := tsjsTypeAliasEntity(n, ctx, exported); ok {
				out = append(out, e)
			}
		case "enum_declaration":
			if e, ok := tsjsEnumEntity(n, ctx, exported); ok {
				out = append(out, e)
			}
		case "lexical_declaration", "variable_declaration":
			tsjsVariableEntities(n, ctx, exported, &out)
		case "public_field_definition", "property_signature":
			if e, ok := tsjsPropertyEntity(n, ctx); ok {
				out = append(out, e)
			}
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			recurse(n.Child(i), false)
		}
	}
	recurse(ctx.root, false)
	return out
}

func tsjsFunctionEntity(n *sitter.Node, ctx *extractCtx, exported bool, kind EntityKind) (CodeEntity, bool) {
	name := nodeText(childByFieldNameAny(n, "name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsAsync:     hasChildOfType(n, "async"),
		IsGenerator: hasChildOfType(n, "*"),
		Parameters:  tsjsParameters(childByFieldNameAny(n, "parameters", "parameter"), ctx.content),
		ReturnType:  nodeText(childByFieldNameAny(n, "return_type"), ctx.content),
	}
	if kind == EntityMethod {
		meta.IsStatic = hasChildOfType(n, "static")
		meta.IsAbstract = hasChildOfType(n, "abstract")
	}
	if tp := childByFieldNameAny(n, "type_parameters"); tp != nil {
		meta.TypeParameters = tsjsTypeParamNames(tp, ctx.content)
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = tsjsDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        kind,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

// tsjsArrowEntity resolves an arrow function's name from its enclosing
// `const name = (...) => ...` binder, one parent level only (§9 decision 2).
func tsjsArrowEntity(n *sitter.Node, ctx *extractCtx, exported bool) (CodeEntity, bool) {
	name := ""
	if parent := n.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
		name = nodeText(parent.ChildByFieldName("name"), ctx.content)
	}
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsAsync:    hasChildOfType(n, "async"),
		Parameters: tsjsParameters(childByFieldNameAny(n, "parameters", "parameter"), ctx.content),
		ReturnType: nodeText(childByFieldNameAny(n, "return_type"), ctx.content),
	}

	return CodeEntity{
		Kind:        EntityFunction,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

func tsjsClassEntity(n *sitter.Node, ctx *extractCtx, exported bool) (CodeEntity, bool) {
	name := nodeText(childByFieldNameAny(n, "name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{IsAbstract: n.Kind() == "abstract_class_declaration"}
	if tp := childByFieldNameAny(n, "type_parameters"); tp != nil {
		meta.TypeParameters = tsjsTypeParamNames(tp, ctx.content)
	}
	if heritage := findFirstChild(n, "class_heritage"); heritage != nil {
		if ext := findFirstChild(heritage, "extends_clause"); ext != nil {
			meta.Extends = nodeText(ext.ChildByFieldName("value"), ctx.content)
		}
		if impl := findFirstChild(heritage, "implements_clause"); impl != nil {
			meta.Implements = tsjsTypeList(impl, ctx.content)
		}
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = tsjsDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        EntityClass,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

func tsjsInterfaceEntity(n *sitter.Node, ctx *extractCtx, exported bool) (CodeEntity, bool) {
	name := nodeText(childByFieldNameAny(n, "name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if tp := childByFieldNameAny(n, "type_parameters"); tp != nil {
		meta.TypeParameters = tsjsTypeParamNames(tp, ctx.content)
	}
	if ext := findFirstChild(n, "extends_type_clause"); ext != nil {
		meta.Implements = tsjsTypeList(ext, ctx.content)
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = tsjsDocComment(n, ctx.content)
	}
	return CodeEntity{
		Kind:        EntityInterface,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

func tsjsTypeAliasEntity(n *sitter.Node, ctx *extractCtx, exported bool) (CodeEntity, bool) {
	name := nodeText(childByFieldNameAny(n, "name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if tp := childByFieldNameAny(n, "type_parameters"); tp != nil {
		meta.TypeParameters = tsjsTypeParamNames(tp, ctx.content)
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = tsjsDocComment(n, ctx.content)
	}
	return CodeEntity{
		Kind:        EntityTypeAlias,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

func tsjsEnumEntity(n *sitter.Node, ctx *extractCtx, exported bool) (CodeEntity, bool) {
	name := nodeText(childByFieldNameAny(n, "name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = tsjsDocComment(n, ctx.content)
	}
	return CodeEntity{
		Kind:        EntityEnum,
		Name:        name,
		Path:        ctx.path,
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsExported:  exported,
		Metadata:    meta,
	}, true
}

func tsjsVariableEntities(n *sitter.Node, ctx *extractCtx, exported bool, out *[]CodeEntity) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		decl := n.Child(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		lineStart, lineEnd, colStart, colEnd := lineRange(decl)
		*out = append(*out, CodeEntity{
			Kind:        EntityVariable,
			Name:        nodeText(nameNode, ctx.content),
			Path:        ctx.path,
			LineStart:   lineStart,
			LineEnd:     lineEnd,
			ColumnStart: colStart,
			ColumnEnd:   colEnd,
			IsExported:  exported,
		})
	}
}

func tsjsPropertyEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	nameNode := childByFieldNameAny(n, "name", "property")
	name := nodeText(nameNode, ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}
	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsStatic:   hasChildOfType(n, "static"),
		ReturnType: nodeText(childByFieldNameAny(n, "type"), ctx.content),
	}
	return CodeEntity{
		Kind:        EntityProperty,
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

// tsjsParameters expands a formal_parameters node (or a bare single-identifier
// arrow parameter) into one ParameterInfo per binding (§4.3.1 TS/JS row).
func tsjsParameters(params *sitter.Node, content []byte) []ParameterInfo {
	if params == nil {
		return nil
	}
	if params.Kind() == "identifier" {
		return []ParameterInfo{{Name: nodeText(params, content)}}
	}

	var out []ParameterInfo
	count := params.ChildCount()
	for i := uint(0); i < count; i++ {
		p := params.Child(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			pattern := childByFieldNameAny(p, "pattern")
			out = append(out, ParameterInfo{
				Name:       nodeText(pattern, content),
				Type:       nodeText(childByFieldNameAny(p, "type"), content),
				IsOptional: p.Kind() == "optional_parameter",
				HasDefault: hasChildOfType(p, "="),
			})
		case "rest_parameter", "rest_pattern":
			inner := findFirstChild(p, "identifier", "array_pattern", "object_pattern")
			out = append(out, ParameterInfo{Name: nodeText(inner, content), IsRest: true})
		case "identifier":
			out = append(out, ParameterInfo{Name: nodeText(p, content)})
		case "assignment_pattern":
			out = append(out, ParameterInfo{
				Name:       nodeText(p.ChildByFieldName("left"), content),
				HasDefault: true,
			})
		case "object_pattern", "array_pattern":
			out = append(out, ParameterInfo{Name: nodeText(p, content)})
		}
	}
	return out
}

func tsjsTypeParamNames(tp *sitter.Node, content []byte) []string {
	var names []string
	count := tp.ChildCount()
	for i := uint(0); i < count; i++ {
		c := tp.Child(i)
		if c != nil && c.Kind() == "type_parameter" {
			names = append(names, nodeText(c.ChildByFieldName("name"), content))
		}
	}
	return names
}

func tsjsTypeList(n *sitter.Node, content []byte) []string {
	var out []string
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "type_identifier", "generic_type", "nested_type_identifier":
			out = append(out, nodeText(c, content))
		}
	}
	return out
}

// tsjsDocComment finds the JSDoc block attached to n, checking the node
// itself and falling back to its enclosing export_statement (§4.3.1).
func tsjsDocComment(n *sitter.Node, content []byte) string {
	cand := n.PrevSibling()
	if cand == nil || cand.Kind() != "comment" {
		if parent := n.Parent(); parent != nil && parent.Kind() == "export_statement" {
			cand = parent.PrevSibling()
		}
	}
	if cand == nil || cand.Kind() != "comment" {
		return ""
	}
	text := strings.TrimSpace(nodeText(cand, content))
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return trimDocMarkers(text)
}

func tsjsImports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() == "import_statement" {
			out = append(out, tsjsImportStatement(n, ctx.content))
		}
		return true
	})
	return out
}

func tsjsImportStatement(n *sitter.Node, content []byte) ImportInfo {
	source := stripQuotes(nodeText(n.ChildByFieldName("source"), content))
	pos := n.StartPosition()
	info := ImportInfo{
		Source:        source,
		ImportedNames: []string{},
		Line:          int(pos.Row) + 1,
		IsRelative:    strings.HasPrefix(source, "."),
		IsTypeOnly:    hasChildOfType(n, "type"),
	}

	clause := findFirstChild(n, "import_clause")
	if clause == nil {
		info.IsSideEffect = true
		return info
	}

	// The default binding is the import_clause's direct identifier child;
	// namespace and named bindings sit inside their own wrapper nodes.
	def := clause.ChildByFieldName("default")
	if def == nil {
		def = findFirstChild(clause, "identifier")
	}
	if def != nil {
		info.DefaultImport = nodeText(def, content)
	}

	cc := clause.ChildCount()
	for i := uint(0); i < cc; i++ {
		c := clause.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "namespace_import":
			if id := findFirstChild(c, "identifier"); id != nil {
				info.NamespaceImport = nodeText(id, content)
			}
		case "named_imports":
			ic := c.ChildCount()
			for j := uint(0); j < ic; j++ {
				spec := c.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				name := nodeText(spec.ChildByFieldName("name"), content)
				info.ImportedNames = append(info.ImportedNames, name)
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					if info.Aliases == nil {
						info.Aliases = map[string]string{}
					}
					info.Aliases[name] = nodeText(alias, content)
				}
			}
		}
	}
	return info
}

func tsjsExports(ctx *extractCtx) []ExportInfo {
	var out []ExportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() == "export_statement" {
			out = append(out, tsjsExportStatement(n, ctx.content))
			return false
		}
		return true
	})
	return out
}

func tsjsExportStatement(n *sitter.Node, content []byte) ExportInfo {
	pos := n.StartPosition()
	info := ExportInfo{ExportedNames: []string{}, Line: int(pos.Row) + 1}
	if hasChildOfType(n, "type") {
		info.IsTypeOnly = true
	}

	if hasChildOfType(n, "default") {
		info.ExportedNames = []string{"default"}
		return info
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		if name := tsjsDeclarationName(decl, content); name != "" {
			info.ExportedNames = []string{name}
		}
		return info
	}

	if src := n.ChildByFieldName("source"); src != nil {
		info.Source = stripQuotes(nodeText(src, content))
	}

	if hasChildOfType(n, "*") {
		info.IsNamespaceExport = true
		info.ExportedNames = []string{"*"}
		return info
	}

	if clause := findFirstChild(n, "export_clause"); clause != nil {
		cc := clause.ChildCount()
		for i := uint(0); i < cc; i++ {
			spec := clause.Child(i)
			if spec == nil || spec.Kind() != "export_specifier" {
				continue
			}
			name := nodeText(spec.ChildByFieldName("name"), content)
			info.ExportedNames = append(info.ExportedNames, name)
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				if info.Aliases == nil {
					info.Aliases = map[string]string{}
				}
				info.Aliases[name] = nodeText(alias, content)
			}
		}
	}
	return info
}

func tsjsDeclarationName(decl *sitter.Node, content []byte) string {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		if first := findFirstChild(decl, "variable_declarator"); first != nil {
			return nodeText(first.ChildByFieldName("name"), content)
		}
		return ""
	default:
		return nodeText(childByFieldNameAny(decl, "name"), content)
	}
}

func tsjsCalls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "function_declaration", "function_expression", "generator_function_declaration", "function", "method_definition":
			if name := nodeText(childByFieldNameAny(n, "name"), ctx.content); name != "" {
				caller = name
			}
		case "arrow_function":
			if parent := n.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
				if name := nodeText(parent.ChildByFieldName("name"), ctx.content); name != "" {
					caller = name
				}
			}
		case "call_expression":
			out = append(out, tsjsCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func tsjsCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	fn := n.ChildByFieldName("function")
	pos := n.StartPosition()
	name, expr := tsjsResolveCallTarget(fn, content)
	info := CallInfo{
		CalledName:       name,
		CalledExpression: expr,
		Line:             int(pos.Row) + 1,
		Column:           int(pos.Column),
	}
	if parent := n.Parent(); parent != nil && parent.Kind() == "await_expression" {
		info.IsAsync = true
	}
	if caller != "" {
		info.CallerName = caller
	}
	return info
}

// tsjsResolveCallTarget implements the TS/JS branch of §4.3.4's
// target-resolution switch. new_expression is never passed here: it is
// excluded from calls entirely (§9 decision 1).
func tsjsResolveCallTarget(fn *sitter.Node, content []byte) (name, expr string) {
	if fn == nil {
		return "", ""
	}
	expr = nodeText(fn, content)

	switch fn.Kind() {
	case "identifier":
		return expr, expr
	case "member_expression":
		object := fn.ChildByFieldName("object")
		property := fn.ChildByFieldName("property")
		if object != nil && object.Kind() == "call_expression" {
			return CallChained, expr
		}
		return nodeText(property, content), expr
	case "subscript_expression":
		index := fn.ChildByFieldName("index")
		if index != nil && index.Kind() == "string" {
			return stripQuotes(nodeText(index, content)), expr
		}
		return CallDynamic, expr
	case "parenthesized_expression":
		inner := findFirstChild(fn, "identifier", "member_expression", "call_expression", "subscript_expression")
		n2, _ := tsjsResolveCallTarget(inner, content)
		return n2, expr
	default:
		return CallDynamic, expr
	}
}
