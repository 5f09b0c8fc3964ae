package token

// Kind represents the category of a committed token.
type Kind uint8

const (
	// Invalid indicates a zero Token.
	Invalid Kind = iota
	// Number is a finished numeral.
	Number
	// Operator is one of + - * /.
	Operator
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Operator:
		return "operator"
	default:
		return "invalid"
	}
}

// Op is a binary arithmetic operator.
type Op uint8

const (
	// OpNone is the zero value; never stored in a sequence.
	OpNone Op = iota
	// Add is '+'.
	Add
	// Sub is '-'.
	Sub
	// Mul is '*'.
	Mul
	// Div is '/'.
	Div
)

// Symbol returns the canonical ASCII symbol of the operator.
func (o Op) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

func (o Op) String() string { return o.Symbol() }

// HighPrecedence reports whether the operator binds tighter than + and -.
func (o Op) HighPrecedence() bool {
	return o == Mul || o == Div
}

// Apply combines two operands. Division follows IEEE-754: x/0 is ±Inf or NaN.
func (o Op) Apply(x, y float64) float64 {
	switch o {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	}
	panic("token: Apply on invalid operator")
}

// LookupOp maps an ASCII operator symbol to its Op.
func LookupOp(r rune) (Op, bool) {
	switch r {
	case '+':
		return Add, true
	case '-':
		return Sub, true
	case '*':
		return Mul, true
	case '/':
		return Div, true
	default:
		return OpNone, false
	}
}
