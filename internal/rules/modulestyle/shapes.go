package modulestyle

import "rbstyle/internal/ast"

// IsExtendSelf reports whether stmt is a self-extension declaration:
// an implicit-receiver call `extend` whose single argument is the
// bare literal `self`. The parenthesized form `extend(self)` counts;
// `extend (self)` does not, because the spaced parenthesis makes the
// argument a grouped expression rather than the bare literal.
func IsExtendSelf(stmt ast.Stmt) bool {
	call, ok := stmt.(*ast.CallStmt)
	if !ok {
		return false
	}
	return !call.HasReceiver &&
		call.Name == "extend" &&
		call.Block == nil &&
		len(call.Args) == 1 &&
		call.Args[0].Kind == ast.ArgSelf
}

// IsModuleFunction reports whether stmt is a module-function
// declaration: an implicit-receiver call `module_function` with no
// arguments. `module_function :helper` restricts visibility of named
// methods and is a different construct.
func IsModuleFunction(stmt ast.Stmt) bool {
	call, ok := stmt.(*ast.CallStmt)
	if !ok {
		return false
	}
	return !call.HasReceiver &&
		call.Name == "module_function" &&
		call.Block == nil &&
		len(call.Args) == 0
}
