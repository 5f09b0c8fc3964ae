package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Source    string   // label printed before each position, e.g. a script name
	MinSev    Severity // drop anything below this severity
	ShowNotes bool
	Keys      string // the script, used to echo the key at Pos
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Source       string
	Max          int // output cap, independent of the Bag
	IncludeNotes bool
	MinSev       Severity
}
