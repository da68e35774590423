// Package graph maintains the in-memory dependency graph over a project's
// markdown files.
//
// Nodes live in an arena keyed by a stable integer id; a separate path→id
// index is the only structure mutated on rename. Edges are directed from
// referrer to referent and carry multiplicity, so renames never lose or
// corrupt edges held by other nodes.
package graph

import (
	"sort"

	"github.com/aidanlsb/relink/internal/model"
)

type node struct {
	file *model.ParsedFile
	out  map[int]int // target id -> link count
	in   map[int]int // source id -> link count
}

// Graph is the dependency graph over a set of parsed files.
type Graph struct {
	nodes  []*node
	byPath map[string]int
}

// Build constructs a graph from parsed files. Links resolving outside the
// given set produce no edge; that is expected, not an error.
func Build(files []*model.ParsedFile) *Graph {
	g := &Graph{byPath: make(map[string]int, len(files))}

	for _, f := range files {
		if _, ok := g.byPath[f.Path]; ok {
			continue
		}
		g.byPath[f.Path] = len(g.nodes)
		g.nodes = append(g.nodes, &node{
			file: f,
			out:  make(map[int]int),
			in:   make(map[int]int),
		})
	}

	for id, n := range g.nodes {
		g.addEdges(id, n.file)
	}
	for _, n := range g.nodes {
		n.file.Dependents = g.dependentPaths(n)
	}
	return g
}

// addEdges derives out-edges (and the matching in-edges) from the file's
// links. Multiplicity counts every resolving link, not just distinct targets.
func (g *Graph) addEdges(id int, file *model.ParsedFile) {
	n := g.nodes[id]
	for _, l := range file.Links {
		if !l.Kind.HasFileTarget() || l.ResolvedPath == "" {
			continue
		}
		target, ok := g.byPath[l.ResolvedPath]
		if !ok {
			continue
		}
		n.out[target]++
		g.nodes[target].in[id]++
	}
}

// Node returns the parsed file for path, or nil if the path is not tracked.
func (g *Graph) Node(path string) *model.ParsedFile {
	id, ok := g.byPath[path]
	if !ok {
		return nil
	}
	return g.nodes[id].file
}

// Paths returns every tracked path, sorted.
func (g *Graph) Paths() []string {
	out := make([]string, 0, len(g.byPath))
	for p := range g.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Dependents returns the paths of all files with an edge into path, sorted.
// This is the precomputed reverse adjacency: it reflects every rename applied
// so far, without re-parsing.
func (g *Graph) Dependents(path string) []string {
	id, ok := g.byPath[path]
	if !ok {
		return nil
	}
	return g.dependentPaths(g.nodes[id])
}

func (g *Graph) dependentPaths(n *node) []string {
	out := make([]string, 0, len(n.in))
	for src := range n.in {
		out = append(out, g.nodes[src].file.Path)
	}
	sort.Strings(out)
	return out
}

// UpdateFilePath rewrites the node key and every path string referencing
// oldPath to newPath, in place. Cost is proportional to the edges touching
// the node, not the whole graph.
func (g *Graph) UpdateFilePath(oldPath, newPath string) bool {
	id, ok := g.byPath[oldPath]
	if !ok {
		return false
	}
	delete(g.byPath, oldPath)
	g.byPath[newPath] = id

	n := g.nodes[id]
	n.file.Path = newPath

	for src := range n.in {
		replacePath(g.nodes[src].file.Dependencies, oldPath, newPath)
	}
	for dst := range n.out {
		replacePath(g.nodes[dst].file.Dependents, oldPath, newPath)
		sort.Strings(g.nodes[dst].file.Dependents)
	}
	return true
}

// RefreshNode replaces a node's parsed file after its content was rewritten
// mid-batch, re-deriving its out-edges against the current path index. The
// node's dependents are preserved.
func (g *Graph) RefreshNode(path string, file *model.ParsedFile) bool {
	id, ok := g.byPath[path]
	if !ok {
		return false
	}
	n := g.nodes[id]

	for target, count := range n.out {
		tn := g.nodes[target]
		tn.in[id] -= count
		if tn.in[id] <= 0 {
			delete(tn.in, id)
		}
		tn.file.Dependents = g.dependentPaths(tn)
	}
	n.out = make(map[int]int)

	file.Path = path
	file.Dependents = n.file.Dependents
	n.file = file

	g.addEdges(id, file)
	for target := range n.out {
		g.nodes[target].file.Dependents = g.dependentPaths(g.nodes[target])
	}
	return true
}

func replacePath(slice []string, oldPath, newPath string) {
	for i, p := range slice {
		if p == oldPath {
			slice[i] = newPath
		}
	}
}
