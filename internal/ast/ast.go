// Package ast defines the statement-level node model the parser
// produces. The checker only needs scope structure and call shapes,
// so expressions inside unrecognized statements stay opaque.
package ast

import (
	"rbstyle/internal/source"
)

// Node is anything with a source location.
type Node interface {
	Span() source.Span
}

// Stmt is a direct child of a file or scope body.
type Stmt interface {
	Node
	stmtNode()
}

// File is the parsed form of one source file.
type File struct {
	FileID source.FileID
	Stmts  []Stmt
}

// WalkModules calls fn for every module declaration in the file,
// outermost first, including modules nested in classes and other
// modules.
func (f *File) WalkModules(fn func(*ModuleDecl)) {
	walkModules(f.Stmts, fn)
}

func walkModules(stmts []Stmt, fn func(*ModuleDecl)) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ModuleDecl:
			fn(n)
			walkModules(n.Body, fn)
		case *ClassDecl:
			walkModules(n.Body, fn)
		case *MethodDecl:
			walkModules(n.Body, fn)
		}
	}
}
