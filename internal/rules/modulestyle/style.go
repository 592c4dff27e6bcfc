package modulestyle

import "fmt"

// Style is the enforced module declaration style.
type Style uint8

const (
	// StyleModuleFunction prefers `module_function` over `extend self`.
	StyleModuleFunction Style = iota
	// StyleExtendSelf prefers `extend self` over `module_function`.
	StyleExtendSelf
	// StyleNone forbids both declarations.
	StyleNone
)

func (s Style) String() string {
	switch s {
	case StyleModuleFunction:
		return "module_function"
	case StyleExtendSelf:
		return "extend_self"
	case StyleNone:
		return "none"
	}
	return fmt.Sprintf("Style(%d)", uint8(s))
}

// ParseStyle maps a configuration string to a Style. Unknown values
// are rejected so misconfiguration surfaces before any file is
// checked.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "module_function":
		return StyleModuleFunction, nil
	case "extend_self":
		return StyleExtendSelf, nil
	case "none":
		return StyleNone, nil
	}
	return 0, fmt.Errorf("unknown module style %q (want module_function, extend_self or none)", s)
}
