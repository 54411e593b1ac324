// modules.go — the summon module loader.
//
// A module is just a Jarlang source file (.vase or .pot). Summoning one
// executes it in a fresh module context and copies its top-level bindings
// into the summoning context. Because Value is a plain value struct, the
// copy is a snapshot: later mutation on either side never leaks across the
// boundary.
//
// Each canonical file loads at most once per Interpreter. Re-summoning a
// loaded module only repeats the export copy; it never re-executes the
// file. Failed loads are never cached, so a fixed file can be summoned
// again in the same session (most useful from the REPL).
//
// Cycles are detected with an explicit load stack: summoning a module that
// is currently mid-load fails with the full chain, e.g.
//
//	import cycle detected: a.vase -> b.vase -> a.vase
package jarlang

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JarlPathEnv names the environment variable holding extra module roots,
// separated by the OS path-list separator.
const JarlPathEnv = "JARLPATH"

// moduleExts are the extensions probed, in order, when the summon path has
// no extension of its own.
var moduleExts = []string{".vase", ".pot"}

type moduleState int

const (
	moduleUnloaded moduleState = iota
	moduleLoading
	moduleLoaded
)

// moduleRec tracks one canonical module file across its lifetime.
type moduleRec struct {
	path    string // canonical absolute path (cache key)
	state   moduleState
	exports map[string]Value
}

const fileLabelPrefix = "file:"

// fileLabel builds the context label for a file-scoped context.
func fileLabel(abs string) string { return fileLabelPrefix + abs }

// contextDir walks the chain for the nearest file-labeled context and
// returns its directory, so relative summons resolve against the importer's
// file rather than the process CWD.
func contextDir(ctx *Context) (string, bool) {
	for c := ctx; c != nil; c = c.parent {
		if strings.HasPrefix(c.Name, fileLabelPrefix) {
			return filepath.Dir(strings.TrimPrefix(c.Name, fileLabelPrefix)), true
		}
	}
	return "", false
}

// ImportInto resolves, loads (if needed), and copies the exports of the
// module named by spec into ctx. Errors raised inside the module (lexical,
// syntax, runtime) propagate unchanged; loader-level failures (not found,
// cycle) are RuntimeErrors without a position — the evaluator stamps the
// summon site onto those.
func (ip *Interpreter) ImportInto(spec string, ctx *Context) error {
	canonical, err := ip.resolveModule(spec, ctx)
	if err != nil {
		return err
	}

	rec, ok := ip.modules[canonical]
	if !ok {
		rec = &moduleRec{path: canonical}
	}

	switch rec.state {
	case moduleLoaded:
		exportInto(rec.exports, ctx)
		return nil
	case moduleLoading:
		return &RuntimeError{Msg: "import cycle detected: " + ip.cycleChain(canonical)}
	}

	rec.state = moduleLoading
	ip.modules[canonical] = rec
	ip.loadStack = append(ip.loadStack, canonical)
	defer func() {
		ip.loadStack = ip.loadStack[:len(ip.loadStack)-1]
	}()

	exports, err := ip.loadModule(canonical)
	if err != nil {
		// Never cache a failure: the next summon retries from scratch.
		delete(ip.modules, canonical)
		return err
	}

	rec.state = moduleLoaded
	rec.exports = exports
	exportInto(exports, ctx)
	return nil
}

// loadModule reads, lexes, parses, and evaluates the module file in its own
// file-labeled context and returns the top-level bindings it produced.
func (ip *Interpreter) loadModule(canonical string) (map[string]Value, error) {
	src, err := os.ReadFile(canonical)
	if err != nil {
		return nil, &RuntimeError{Msg: fmt.Sprintf("cannot read module %s: %v", canonical, err)}
	}
	modCtx := NewContext(fileLabel(canonical), ip.Globals)
	if _, err := ip.EvalSource(canonical, string(src), modCtx); err != nil {
		return nil, err
	}
	exports := make(map[string]Value, len(modCtx.table))
	for name, v := range modCtx.table {
		exports[name] = v
	}
	return exports, nil
}

// exportInto copies module bindings into the destination context. Existing
// names are overwritten; Value is a value type, so each side keeps its own
// copy afterwards.
func exportInto(exports map[string]Value, dst *Context) {
	for name, v := range exports {
		dst.Define(name, v)
	}
}

// cycleChain renders the in-flight load stack from the first occurrence of
// the repeated module through to the repeat itself.
func (ip *Interpreter) cycleChain(repeat string) string {
	start := 0
	for i, p := range ip.loadStack {
		if p == repeat {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(ip.loadStack)-start+1)
	for _, p := range ip.loadStack[start:] {
		parts = append(parts, filepath.Base(p))
	}
	parts = append(parts, filepath.Base(repeat))
	return strings.Join(parts, " -> ")
}

// resolveModule turns a summon spec into the canonical absolute path of an
// existing file. Search order: the summoning file's directory, the current
// working directory, then each JARLPATH root. Within each root, a spec
// without a known extension probes ".vase" then ".pot" before trying the
// spec as given.
func (ip *Interpreter) resolveModule(spec string, ctx *Context) (string, error) {
	if spec == "" {
		return "", &RuntimeError{Msg: "empty module path"}
	}

	var roots []string
	if filepath.IsAbs(spec) {
		roots = []string{""}
	} else {
		if dir, ok := contextDir(ctx); ok {
			roots = append(roots, dir)
		}
		if cwd, err := os.Getwd(); err == nil {
			roots = append(roots, cwd)
		}
		for _, root := range filepath.SplitList(os.Getenv(JarlPathEnv)) {
			if root != "" {
				roots = append(roots, root)
			}
		}
	}

	for _, root := range roots {
		candidate := spec
		if root != "" {
			candidate = filepath.Join(root, spec)
		}
		if found, ok := probeFile(candidate); ok {
			return canonicalPath(found)
		}
	}
	return "", &RuntimeError{Msg: fmt.Sprintf("module not found: %q (searched importer directory, working directory, and %s)", spec, JarlPathEnv)}
}

// probeFile tries the module extensions for a candidate path and reports the
// first regular file that exists.
func probeFile(candidate string) (string, bool) {
	tries := []string{candidate}
	if ext := filepath.Ext(candidate); ext != ".vase" && ext != ".pot" {
		tries = make([]string, 0, len(moduleExts)+1)
		for _, e := range moduleExts {
			tries = append(tries, candidate+e)
		}
		tries = append(tries, candidate)
	}
	for _, path := range tries {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// canonicalPath cleans, absolutizes, and symlink-resolves a path so the
// module cache keys on file identity, not spelling.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", &RuntimeError{Msg: fmt.Sprintf("cannot resolve module path %s: %v", path, err)}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
