package diag

// NoPos marks a diagnostic that is not tied to a keystroke.
const NoPos = -1

type Note struct {
	Pos int
	Msg string
}

// Diagnostic is a single finding. Pos is the zero-based keystroke index
// within the session or script, or NoPos.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      int
	Notes    []Note
}

func New(sev Severity, code Code, pos int, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Pos:      pos,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(pos int, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
