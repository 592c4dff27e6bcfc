package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Syntax.
	SynInfo            Code = 2000
	SynMissingEnd      Code = 2001
	SynUnexpectedToken Code = 2002
	SynExpectConstName Code = 2003
	SynExpectDefName   Code = 2004

	// Style rules.
	StyInfo        Code = 3000
	StyModuleStyle Code = 3001

	// I/O.
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string",
	SynInfo:               "Syntax information",
	SynMissingEnd:         "Missing 'end'",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectConstName:    "Expect constant name",
	SynExpectDefName:      "Expect method name",
	StyInfo:               "Style information",
	StyModuleStyle:        "Module declaration style",
	IOLoadFileError:       "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
