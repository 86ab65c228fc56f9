package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004
	LexTokenTooLong       Code = 1005

	// Textual IR parsing
	ParInfo             Code = 2000
	ParUnexpectedToken  Code = 2001
	ParUnknownDialect   Code = 2002
	ParUnknownOperation Code = 2003
	ParUnknownType      Code = 2004
	ParDuplicateAttr    Code = 2005
	ParMissingField     Code = 2006
	ParBadAttr          Code = 2007
	ParUndefinedValue   Code = 2008
	ParTrailingInput    Code = 2009
	ParRedefinition     Code = 2010

	// Validation
	ValInfo                         Code = 3000
	ValBlockNotRegisteredWithRegion Code = 3001
	ValBlockMissingTerminator       Code = 3002
	ValOpInvalid                    Code = 3003

	// Pass pipeline
	PasInfo             Code = 4000
	PasUnknownPass      Code = 4001
	PasUnexpectedOpType Code = 4002
	PasFailed           Code = 4003

	// Binary IR and I/O
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001
	IOBadBytecode   Code = 5002
	IOWriteError    Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Malformed integer literal",
	LexBadEscape:          "Invalid escape sequence",
	LexTokenTooLong:       "Token too long",

	ParInfo:             "Parse information",
	ParUnexpectedToken:  "Unexpected token",
	ParUnknownDialect:   "Unknown dialect",
	ParUnknownOperation: "Unknown operation",
	ParUnknownType:      "Unknown type",
	ParDuplicateAttr:    "Duplicate attribute",
	ParMissingField:     "Missing required operation field",
	ParBadAttr:          "Malformed attribute",
	ParUndefinedValue:   "Reference to undefined value",
	ParTrailingInput:    "Unexpected input after top-level operation",
	ParRedefinition:     "Name defined twice in one scope",

	ValInfo:                         "Validation information",
	ValBlockNotRegisteredWithRegion: "Block not registered with region",
	ValBlockMissingTerminator:       "Block missing terminator",
	ValOpInvalid:                    "Operation failed verification",

	PasInfo:             "Pass information",
	PasUnknownPass:      "Unknown pass",
	PasUnexpectedOpType: "Pass applied to unexpected operation",
	PasFailed:           "Pass failed",

	IOInfo:          "I/O information",
	IOLoadFileError: "I/O load file error",
	IOBadBytecode:   "Malformed binary IR",
	IOWriteError:    "I/O write error",
}

// ID returns the stable identifier, e.g. "PAR2003".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PAS%04d", ic)
	case ic >= 5000 && ic < 6000:
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
