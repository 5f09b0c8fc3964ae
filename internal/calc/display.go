package calc

// Update is what the front end should render after a keystroke.
// Err is set only for surfaced errors; Text is then empty.
type Update struct {
	Text string
	Err  error
}

// Display receives every visible change. Implementations must not call back
// into the Calculator: Render runs while the session lock is held.
type Display interface {
	Render(u Update)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Update)

func (f DisplayFunc) Render(u Update) { f(u) }

type nopDisplay struct{}

func (nopDisplay) Render(Update) {}

// Recorder is a Display that keeps every update.
type Recorder struct {
	Updates []Update
}

func (r *Recorder) Render(u Update) { r.Updates = append(r.Updates, u) }

// Last returns the most recent update.
func (r *Recorder) Last() (Update, bool) {
	if len(r.Updates) == 0 {
		return Update{}, false
	}
	return r.Updates[len(r.Updates)-1], true
}
