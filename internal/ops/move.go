// Package ops orchestrates link-aware move operations:
// Validate -> Discover -> BuildGraph -> PlanChanges -> (DryRun | Execute).
//
// It is the only component besides the transaction manager with filesystem
// side effects.
package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aidanlsb/relink/internal/graph"
	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/parser"
	"github.com/aidanlsb/relink/internal/paths"
	"github.com/aidanlsb/relink/internal/project"
	"github.com/aidanlsb/relink/internal/rewrite"
	"github.com/aidanlsb/relink/internal/txn"
)

// MovePair is one source/destination request in a batch.
type MovePair struct {
	Source      string
	Destination string
}

// Options control a move operation.
type Options struct {
	// Root overrides the discovery root. When empty, the common ancestor
	// directory of all touched paths is used.
	Root string

	// DryRun computes the full change list without touching the filesystem.
	DryRun bool

	// CreateBackups writes ".backup" siblings before destructive content
	// updates and leaves them in place after a successful commit.
	CreateBackups bool

	// Config is the per-project configuration; loaded from the discovery
	// root when nil.
	Config *project.Config
}

// MoveFile moves one markdown file and rewrites every affected link.
func MoveFile(source, destination string, opts Options) *model.OperationResult {
	return MoveFiles([]MovePair{{Source: source, Destination: destination}}, opts)
}

// resolvedPair is a validated pair with absolute paths and the directory
// shorthand ("mv x.md dir/") already resolved.
type resolvedPair struct {
	src string
	dst string
}

// MoveFiles moves a batch of markdown files as one atomic operation. All
// pairs are validated up front; any invalid pair rejects the whole batch
// before any I/O. Rewrites are planned against the complete old->new path
// mapping at once, so chains and swaps within a batch come out right.
func MoveFiles(pairs []MovePair, opts Options) *model.OperationResult {
	res := &model.OperationResult{}

	resolved, errs := resolvePairs(pairs)
	if len(errs) > 0 {
		res.Errors = errs
		return res
	}

	root := opts.Root
	if root == "" {
		var touched []string
		for _, p := range resolved {
			touched = append(touched, p.src, p.dst)
		}
		root = paths.CommonAncestor(touched)
	} else {
		abs, err := filepath.Abs(root)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
		root = abs
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := project.LoadConfig(root)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			loaded = &project.Config{}
		}
		cfg = loaded
	}

	corpus, err := project.ParseAll(root, cfg)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("discover %s: %v", root, err))
		return res
	}
	res.Warnings = append(res.Warnings, corpus.Warnings...)

	g := graph.Build(corpus.Files)
	plan := planChanges(g, corpus.Contents, resolved, res)

	res.Changes = plan.changes
	res.ModifiedFiles = relativize(root, plan.modified())
	res.CreatedFiles = relativize(root, plan.created)
	res.DeletedFiles = relativize(root, plan.deleted)

	if opts.DryRun {
		res.Success = true
		return res
	}

	createBackups := opts.CreateBackups
	if !createBackups && cfg.CreateBackups != nil {
		createBackups = *cfg.CreateBackups
	}

	exec := buildTransaction(plan, resolved, createBackups).Execute()
	if !exec.Success {
		res.Success = false
		res.Errors = append(res.Errors, exec.Errors...)
		return res
	}

	res.Success = true
	return res
}

// movePlan accumulates the outcome of the planning stage. Contents and dirty
// flags are keyed by final (post-move) paths.
type movePlan struct {
	changes  []model.OperationChange
	contents map[string]string
	dirty    map[string]bool
	created  []string
	deleted  []string
}

// modified returns the dirty files that are not move destinations, sorted.
func (p *movePlan) modified() []string {
	createdSet := make(map[string]bool, len(p.created))
	for _, c := range p.created {
		createdSet[c] = true
	}
	var out []string
	for path := range p.dirty {
		if !createdSet[path] {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// dirtyPaths returns every dirty file (final paths), sorted.
func (p *movePlan) dirtyPaths() []string {
	out := make([]string, 0, len(p.dirty))
	for path := range p.dirty {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// planChanges computes every content rewrite for the batch. Each affected
// file is rewritten exactly once against the full old->new mapping, then
// re-parsed and fed back into the graph; disk is never consulted mid-plan.
// The graph's path index is renamed afterwards so it stays queryable at the
// final paths.
func planChanges(g *graph.Graph, contents map[string]string, pairs []resolvedPair, res *model.OperationResult) *movePlan {
	plan := &movePlan{
		contents: contents,
		dirty:    make(map[string]bool),
	}

	mapping := make(map[string]string, len(pairs))
	for _, p := range pairs {
		mapping[p.src] = p.dst
	}

	// Dependents of any moved file. Files that are themselves moving are
	// rewritten in the moving pass below, with the directory change applied.
	depSet := make(map[string]bool)
	for _, p := range pairs {
		if g.Node(p.src) == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: not in discovered set; links not analyzed", p.src))
			continue
		}
		for _, dep := range g.Dependents(p.src) {
			if _, moving := mapping[dep]; moving {
				continue
			}
			depSet[dep] = true
		}
	}
	dependents := make([]string, 0, len(depSet))
	for dep := range depSet {
		dependents = append(dependents, dep)
	}
	sort.Strings(dependents)

	for _, dep := range dependents {
		node := g.Node(dep)
		content, ok := plan.contents[dep]
		if node == nil || !ok {
			continue
		}
		dir := filepath.Dir(dep)
		r := rewrite.Apply(node, content, mapping, dir, dir)
		res.Warnings = append(res.Warnings, r.Errors...)
		if !r.Changed() {
			continue
		}
		plan.contents[dep] = r.UpdatedContent
		plan.dirty[dep] = true
		plan.changes = append(plan.changes, r.Changes...)

		reparsed, parseWarnings := parser.Parse(r.UpdatedContent, dep)
		res.Warnings = append(res.Warnings, parseWarnings...)
		g.RefreshNode(dep, reparsed)
	}

	// The moving files themselves: relative links are recomputed for the new
	// directory, and links to other batch members follow the mapping.
	for _, p := range pairs {
		node := g.Node(p.src)
		content, ok := plan.contents[p.src]
		if node == nil || !ok {
			continue
		}
		r := rewrite.Apply(node, content, mapping, filepath.Dir(p.src), filepath.Dir(p.dst))
		res.Warnings = append(res.Warnings, r.Errors...)
		if !r.Changed() {
			continue
		}
		plan.contents[p.src] = r.UpdatedContent
		plan.dirty[p.src] = true
		plan.changes = append(plan.changes, r.Changes...)
	}

	renameAll(g, plan, pairs)

	// Re-derive the moved files' edges at their final paths.
	for _, p := range pairs {
		node := g.Node(p.dst)
		content, ok := plan.contents[p.dst]
		if node == nil || !ok {
			continue
		}
		reparsed, parseWarnings := parser.Parse(content, p.dst)
		res.Warnings = append(res.Warnings, parseWarnings...)
		g.RefreshNode(p.dst, reparsed)
	}

	for _, p := range pairs {
		plan.changes = append(plan.changes, model.OperationChange{
			Type:     model.ChangeFileMoved,
			FilePath: p.src,
			OldValue: p.src,
			NewValue: p.dst,
		})
		plan.created = append(plan.created, p.dst)
		plan.deleted = append(plan.deleted, p.src)
	}

	for _, path := range plan.dirtyPaths() {
		plan.changes = append(plan.changes, model.OperationChange{
			Type:     model.ChangeContentWritten,
			FilePath: path,
		})
	}
	return plan
}

// renameAll re-keys the graph index and the plan's content/dirty maps from
// source to destination paths. When a destination is also a batch source
// (a swap or rotation), the renames go through unique staging keys first so
// no entry is overwritten.
func renameAll(g *graph.Graph, plan *movePlan, pairs []resolvedPair) {
	srcSet := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		srcSet[p.src] = true
	}
	collides := false
	for _, p := range pairs {
		if srcSet[p.dst] {
			collides = true
			break
		}
	}

	savedContent := make([]string, len(pairs))
	hadContent := make([]bool, len(pairs))
	wasDirty := make([]bool, len(pairs))
	for i, p := range pairs {
		savedContent[i], hadContent[i] = plan.contents[p.src]
		wasDirty[i] = plan.dirty[p.src]
		delete(plan.contents, p.src)
		delete(plan.dirty, p.src)
	}

	if collides {
		for i, p := range pairs {
			g.UpdateFilePath(p.src, stageName(p.dst, i))
		}
		for i, p := range pairs {
			g.UpdateFilePath(stageName(p.dst, i), p.dst)
		}
	} else {
		for _, p := range pairs {
			g.UpdateFilePath(p.src, p.dst)
		}
	}

	for i, p := range pairs {
		if hadContent[i] {
			plan.contents[p.dst] = savedContent[i]
		}
		if wasDirty[i] {
			plan.dirty[p.dst] = true
		}
	}
}

func stageName(dst string, i int) string {
	return filepath.Join(filepath.Dir(dst), fmt.Sprintf(".relink-stage-%d-%s", i, filepath.Base(dst)))
}

// buildTransaction queues the planned moves and writes in plan order. When a
// destination is also a batch source (e.g. a swap), every move stages through
// a temporary name first so renames never collide.
func buildTransaction(plan *movePlan, pairs []resolvedPair, createBackups bool) *txn.Transaction {
	tx := txn.New()
	tx.SetCreateBackups(createBackups)

	sources := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		sources[p.src] = true
	}
	staged := false
	for _, p := range pairs {
		if sources[p.dst] {
			staged = true
			break
		}
	}

	if staged {
		for i, p := range pairs {
			tx.AddFileMove(p.src, stageName(p.dst, i), false, fmt.Sprintf("stage %s", p.src))
		}
		for i, p := range pairs {
			tx.AddFileMove(stageName(p.dst, i), p.dst, false, fmt.Sprintf("move %s -> %s", p.src, p.dst))
		}
	} else {
		for _, p := range pairs {
			tx.AddFileMove(p.src, p.dst, false, fmt.Sprintf("move %s -> %s", p.src, p.dst))
		}
	}

	for _, path := range plan.dirtyPaths() {
		tx.AddContentUpdate(path, []byte(plan.contents[path]), fmt.Sprintf("update links in %s", path))
	}
	return tx
}

// resolvePairs validates the whole batch up front: syntactic path checks,
// markdown extensions, source existence, destination-directory resolution,
// and collision checks. Any error rejects the batch before I/O.
func resolvePairs(pairs []MovePair) ([]resolvedPair, []string) {
	var out []resolvedPair
	var errs []string

	if len(pairs) == 0 {
		return nil, []string{"no files to move"}
	}

	sources := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if paths.Validate(p.Source) != nil {
			continue
		}
		if abs, err := filepath.Abs(p.Source); err == nil {
			sources[abs] = true
		}
	}

	dests := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if err := paths.Validate(p.Source); err != nil {
			errs = append(errs, fmt.Sprintf("source %q: %v", p.Source, err))
			continue
		}
		if err := paths.Validate(p.Destination); err != nil {
			errs = append(errs, fmt.Sprintf("destination %q: %v", p.Destination, err))
			continue
		}

		src, err := filepath.Abs(p.Source)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := paths.ValidateMarkdown(src); err != nil {
			errs = append(errs, fmt.Sprintf("source %q: %v", p.Source, err))
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			errs = append(errs, fmt.Sprintf("source %q: does not exist", p.Source))
			continue
		}
		if info.IsDir() {
			errs = append(errs, fmt.Sprintf("source %q: is a directory", p.Source))
			continue
		}

		dst, err := filepath.Abs(p.Destination)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		// "mv x.md dir/" keeps the basename.
		if paths.LooksLikeDir(p.Destination) {
			dst = filepath.Join(dst, filepath.Base(src))
		} else if info, err := os.Stat(dst); err == nil && info.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		if err := paths.ValidateMarkdown(dst); err != nil {
			errs = append(errs, fmt.Sprintf("destination %q: %v", p.Destination, err))
			continue
		}
		if src == dst {
			errs = append(errs, fmt.Sprintf("%q: source and destination are the same file", p.Source))
			continue
		}
		// A destination may exist on disk only when it is itself moving away
		// in this batch (e.g. a swap).
		if _, err := os.Stat(dst); err == nil && !sources[dst] {
			errs = append(errs, fmt.Sprintf("destination %q: already exists", p.Destination))
			continue
		}
		if dests[dst] {
			errs = append(errs, fmt.Sprintf("destination %q: targeted by multiple moves", p.Destination))
			continue
		}
		dests[dst] = true

		out = append(out, resolvedPair{src: src, dst: dst})
	}

	// Duplicate sources are a planning hazard: the second move would operate
	// on a path that no longer exists.
	seen := make(map[string]bool, len(out))
	for _, p := range out {
		if seen[p.src] {
			errs = append(errs, fmt.Sprintf("source %q: moved more than once", p.src))
		}
		seen[p.src] = true
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func relativize(root string, absPaths []string) []string {
	var out []string
	for _, p := range absPaths {
		rel, err := paths.Relative(root, p)
		if err != nil {
			out = append(out, filepath.ToSlash(p))
			continue
		}
		out = append(out, rel)
	}
	return out
}
