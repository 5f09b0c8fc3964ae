package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// keystrokes
	KeyInfo           Code = 1000
	KeyUnknown        Code = 1001
	KeyDuplicatePoint Code = 1002

	// expression shape
	ExprInfo            Code = 2000
	ExprOperatorRefused Code = 2001
	ExprMalformed       Code = 2002

	// evaluation
	EvalInfo      Code = 3000
	EvalNonFinite Code = 3001

	// tapes and scripts on disk
	IOLoadFileError Code = 4001
	IOBadTape       Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	KeyInfo:             "Keystroke information",
	KeyUnknown:          "Unrecognized keystroke",
	KeyDuplicatePoint:   "Numeral already contains a decimal point",
	ExprInfo:            "Expression information",
	ExprOperatorRefused: "Operator needs a preceding number",
	ExprMalformed:       "Expression ends with an operator",
	EvalInfo:            "Evaluation information",
	EvalNonFinite:       "Result is not a finite number",
	IOLoadFileError:     "Failed to load file",
	IOBadTape:           "Tape is corrupt or has an unsupported schema",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("KEY%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("EXP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
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
