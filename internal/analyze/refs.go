// Package analyze inspects parsed templates for the top-level context keys
// they read, so keys missing from the config record can be reported before
// a lenient render silently prints "<no value>".
package analyze

import (
	"sort"
	"text/template"
	"text/template/parse"
)

// References returns the sorted top-level keys that the template called
// name reads from the root context. {{ template }} calls that pass the root
// context are followed into the other templates of set. Fields inside
// range and with bodies are relative to a different dot and are skipped.
func References(set *template.Template, name string) []string {
	w := &walker{set: set, keys: make(map[string]bool), seen: make(map[string]bool)}
	w.template(name)

	keys := make([]string, 0, len(w.keys))
	for k := range w.keys {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Missing returns the entries of refs that are not keys of data.
func Missing(refs []string, data map[string]any) []string {
	var missing []string

	for _, k := range refs {
		if _, ok := data[k]; !ok {
			missing = append(missing, k)
		}
	}

	return missing
}

type walker struct {
	set  *template.Template
	keys map[string]bool
	seen map[string]bool
}

func (w *walker) template(name string) {
	if w.seen[name] {
		return
	}

	w.seen[name] = true

	t := w.set.Lookup(name)
	if t == nil || t.Tree == nil {
		return
	}

	w.node(t.Tree.Root)
}

func (w *walker) node(node parse.Node) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}

		for _, child := range n.Nodes {
			w.node(child)
		}

	case *parse.ActionNode:
		w.pipe(n.Pipe)

	case *parse.CommandNode:
		for _, arg := range n.Args {
			w.node(arg)
		}

	case *parse.PipeNode:
		w.pipe(n)

	case *parse.ChainNode:
		w.node(n.Node)

	case *parse.FieldNode:
		if len(n.Ident) > 0 {
			w.keys[n.Ident[0]] = true
		}

	case *parse.VariableNode:
		// $.key always addresses the root context.
		if len(n.Ident) >= 2 && n.Ident[0] == "$" {
			w.keys[n.Ident[1]] = true
		}

	case *parse.IfNode:
		w.pipe(n.Pipe)
		w.node(n.List)
		w.node(n.ElseList)

	case *parse.RangeNode:
		w.pipe(n.Pipe)
		w.scoped(n.List)
		w.node(n.ElseList)

	case *parse.WithNode:
		w.pipe(n.Pipe)
		w.scoped(n.List)
		w.node(n.ElseList)

	case *parse.TemplateNode:
		w.pipe(n.Pipe)

		if passesRoot(n.Pipe) {
			w.template(n.Name)
		}
	}
}

func (w *walker) pipe(p *parse.PipeNode) {
	if p == nil {
		return
	}

	for _, cmd := range p.Cmds {
		w.node(cmd)
	}
}

// scoped walks a body whose dot is rebound, collecting only $ references.
func (w *walker) scoped(list *parse.ListNode) {
	if list == nil {
		return
	}

	for _, v := range variables(list) {
		w.keys[v] = true
	}
}

// variables collects $.key references anywhere below node.
func variables(node parse.Node) []string {
	var out []string

	var visit func(parse.Node)
	visit = func(node parse.Node) {
		switch n := node.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}

			for _, c := range n.Nodes {
				visit(c)
			}
		case *parse.ActionNode:
			visit(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}

			for _, c := range n.Cmds {
				visit(c)
			}
		case *parse.CommandNode:
			for _, a := range n.Args {
				visit(a)
			}
		case *parse.ChainNode:
			visit(n.Node)
		case *parse.VariableNode:
			if len(n.Ident) >= 2 && n.Ident[0] == "$" {
				out = append(out, n.Ident[1])
			}
		case *parse.IfNode:
			visit(n.Pipe)
			visit(n.List)
			visit(n.ElseList)
		case *parse.RangeNode:
			visit(n.Pipe)
			visit(n.List)
			visit(n.ElseList)
		case *parse.WithNode:
			visit(n.Pipe)
			visit(n.List)
			visit(n.ElseList)
		case *parse.TemplateNode:
			visit(n.Pipe)
		}
	}

	visit(node)

	return out
}

// passesRoot reports whether a {{ template }} call passes the root context
// as its dot, i.e. {{ template "x" . }} or {{ template "x" $ }}.
func passesRoot(p *parse.PipeNode) bool {
	if p == nil || len(p.Cmds) != 1 || len(p.Cmds[0].Args) != 1 {
		return false
	}

	switch a := p.Cmds[0].Args[0].(type) {
	case *parse.DotNode:
		return true
	case *parse.VariableNode:
		return len(a.Ident) == 1 && a.Ident[0] == "$"
	default:
		return false
	}
}
