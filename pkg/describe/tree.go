// Package describe renders a classified workspace as a tree for the
// describe command.
package describe

import (
	"fmt"
	"strings"

	"projgen/pkg/workspace"
)

// Glyphs are the connectors drawn between tree levels.
type Glyphs struct {
	Branch string // entry with siblings below it
	Last   string // final entry of a level
	Pipe   string // indentation under a Branch
	Indent string // indentation under a Last
}

// Box draws with box characters; ASCII is used when output is not a terminal.
var (
	Box   = Glyphs{Branch: "├── ", Last: "└── ", Pipe: "│   ", Indent: "    "}
	ASCII = Glyphs{Branch: "|-- ", Last: "`-- ", Pipe: "|   ", Indent: "    "}
)

// node is one line of the tree and its children.
type node struct {
	label    string
	children []node
}

// Tree renders ws: one subtree per target, one per non-empty kind slot, and
// the files of that slot in classification order.
func Tree(ws *workspace.Workspace, g Glyphs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/\n", ws.Name)
	var targets []node
	for _, p := range ws.Targets {
		targets = append(targets, projectNode(p))
	}
	writeNodes(&b, targets, "", g)
	return b.String()
}

func projectNode(p *workspace.Project) node {
	n := node{label: fmt.Sprintf("%s (%s, %s, %d files)", p.Label(), p.Flavor.Name, p.Settings.Build, p.Count())}
	for k := 0; k < p.Flavor.Slots; k++ {
		files := p.Sources[k]
		if len(files) == 0 {
			continue
		}
		kind := node{label: p.Flavor.KindName(workspace.Kind(k)) + "/"}
		for _, f := range files {
			kind.children = append(kind.children, node{label: f.Path()})
		}
		n.children = append(n.children, kind)
	}
	if len(p.PublicHeaders) > 0 {
		pub := node{label: "public/"}
		for _, f := range p.PublicHeaders {
			pub.children = append(pub.children, node{label: f.Path()})
		}
		n.children = append(n.children, pub)
	}
	return n
}

// writeNodes draws nodes at one level, recursing with the extended prefix.
func writeNodes(b *strings.Builder, nodes []node, prefix string, g Glyphs) {
	for i, n := range nodes {
		connector, extension := g.Branch, g.Pipe
		if i == len(nodes)-1 {
			connector, extension = g.Last, g.Indent
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, n.label)
		writeNodes(b, n.children, prefix+extension, g)
	}
}
