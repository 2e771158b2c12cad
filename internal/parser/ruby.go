package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rubyExtractor implements Extractor for Ruby source (§4.3 Ruby column).
type rubyExtractor struct{}

func (rubyExtractor) Entities(ctx *extractCtx) []CodeEntity {
	var out []CodeEntity
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class":
			if e, ok := rubyClassEntity(n, ctx); ok {
				out = append(out, e)
			}
		case "module":
			if e, ok := rubyModuleEntity(n, ctx); ok {
				out = append(out, e)
			}
		case "method":
			if e, ok := rubyMethodEntity(n, ctx, false); ok {
				out = append(out, e)
			}
		case "singleton_method":
			if e, ok := rubyMethodEntity(n, ctx, true); ok {
				out = append(out, e)
			}
		}
		return true
	})
	return out
}

func rubyClassEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{}
	if super := n.ChildByFieldName("superclass"); super != nil {
		// The superclass node spans "< Base"; keep only the parent name.
		meta.Extends = strings.TrimSpace(strings.TrimPrefix(nodeText(super, ctx.content), "<"))
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = rubyDocComment(n, ctx.content)
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

func rubyModuleEntity(n *sitter.Node, ctx *extractCtx) (CodeEntity, bool) {
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
		meta.Documentation = rubyDocComment(n, ctx.content)
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

func rubyMethodEntity(n *sitter.Node, ctx *extractCtx, isSingleton bool) (CodeEntity, bool) {
	name := nodeText(n.ChildByFieldName("name"), ctx.content)
	if name == "" {
		if !ctx.opts.IncludeAnonymous {
			return CodeEntity{}, false
		}
		name = AnonymousName
	}

	lineStart, lineEnd, colStart, colEnd := lineRange(n)
	meta := EntityMetadata{
		IsStatic:   isSingleton,
		Parameters: rubyParameters(n.ChildByFieldName("parameters"), ctx.content),
	}
	if ctx.opts.ExtractDocumentation {
		meta.Documentation = rubyDocComment(n, ctx.content)
	}

	return CodeEntity{
		Kind:        EntityMethod,
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

// rubyParameters expands a method_parameters node per §4.3.1's Ruby row.
func rubyParameters(params *sitter.Node, content []byte) []ParameterInfo {
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
			out = append(out, ParameterInfo{Name: nodeText(p, content)})
		case "optional_parameter":
			out = append(out, ParameterInfo{Name: nodeText(p.ChildByFieldName("name"), content), HasDefault: true})
		case "splat_parameter":
			out = append(out, ParameterInfo{Name: nodeText(findFirstChild(p, "identifier"), content), IsRest: true})
		case "hash_splat_parameter":
			out = append(out, ParameterInfo{Name: nodeText(findFirstChild(p, "identifier"), content), IsRest: true})
		case "block_parameter":
			out = append(out, ParameterInfo{Name: nodeText(findFirstChild(p, "identifier"), content)})
		case "keyword_parameter":
			out = append(out, ParameterInfo{
				Name:       nodeText(p.ChildByFieldName("name"), content),
				HasDefault: p.ChildByFieldName("value") != nil,
			})
		}
	}
	return out
}

// rubyDocComment collects the contiguous block of "#"-prefixed line
// comments immediately preceding n (§4.3.1 Ruby row).
func rubyDocComment(n *sitter.Node, content []byte) string {
	var lines []string
	sib := n.PrevSibling()
	for sib != nil && sib.Kind() == "comment" {
		text := strings.TrimSpace(nodeText(sib, content))
		if !strings.HasPrefix(text, "#") {
			break
		}
		lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "#"))}, lines...)
		sib = sib.PrevSibling()
	}
	return trimDocMarkers(strings.Join(lines, "\n"))
}

func (rubyExtractor) Imports(ctx *extractCtx) []ImportInfo {
	var out []ImportInfo
	walkPreOrder(ctx.root, func(n *sitter.Node) bool {
		if n.Kind() == "call" {
			if info, ok := rubyImportCall(n, ctx.content); ok {
				out = append(out, info)
			}
		}
		return true
	})
	return out
}

func rubyImportCall(n *sitter.Node, content []byte) (ImportInfo, bool) {
	method := nodeText(n.ChildByFieldName("method"), content)
	if method != "require" && method != "require_relative" && method != "load" {
		return ImportInfo{}, false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ImportInfo{}, false
	}

	var named []*sitter.Node
	count := args.ChildCount()
	for i := uint(0); i < count; i++ {
		c := args.Child(i)
		if c != nil && c.IsNamed() {
			named = append(named, c)
		}
	}
	if len(named) != 1 || named[0].Kind() != "string" {
		return ImportInfo{}, false
	}

	source := stripQuotes(nodeText(named[0], content))
	pos := n.StartPosition()
	isRelative := method == "require_relative" || strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../")
	return ImportInfo{
		Source:        source,
		ImportedNames: []string{},
		IsRelative:    isRelative,
		IsSideEffect:  true,
		Line:          int(pos.Row) + 1,
	}, true
}

func (rubyExtractor) Exports(ctx *extractCtx) []ExportInfo {
	return []ExportInfo{}
}

func (rubyExtractor) Calls(ctx *extractCtx) []CallInfo {
	var out []CallInfo
	var walk func(n *sitter.Node, caller string)
	walk = func(n *sitter.Node, caller string) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "method":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "singleton_method":
			if name := nodeText(n.ChildByFieldName("name"), ctx.content); name != "" {
				caller = name
			}
		case "call":
			method := nodeText(n.ChildByFieldName("method"), ctx.content)
			if method == "require" || method == "require_relative" || method == "load" {
				break
			}
			out = append(out, rubyCallInfo(n, ctx.content, caller))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i), caller)
		}
	}
	walk(ctx.root, "")
	return out
}

func rubyCallInfo(n *sitter.Node, content []byte, caller string) CallInfo {
	name := nodeText(n.ChildByFieldName("method"), content)
	receiver := n.ChildByFieldName("receiver")
	pos := n.StartPosition()

	expr := nodeText(n, content)
	if args := n.ChildByFieldName("arguments"); args != nil {
		expr = textBefore(n, args, content)
	}
	if receiver != nil && receiver.Kind() == "call" {
		name = CallChained
	}

	info := CallInfo{CalledName: name, CalledExpression: expr, Line: int(pos.Row) + 1, Column: int(pos.Column)}
	if caller != "" {
		info.CallerName = caller
	}
	return info
}
