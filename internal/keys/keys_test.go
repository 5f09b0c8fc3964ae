package keys

import (
	"errors"
	"testing"

	"tally/internal/diag"
	"tally/internal/token"
)

func TestParse(t *testing.T) {
	cases := map[rune]Key{
		'0':  DigitKey('0'),
		'9':  DigitKey('9'),
		'.':  PointKey(),
		'+':  OpKey(token.Add),
		'-':  OpKey(token.Sub),
		'*':  OpKey(token.Mul),
		'x':  OpKey(token.Mul),
		'×':  OpKey(token.Mul),
		'/':  OpKey(token.Div),
		'÷':  OpKey(token.Div),
		'−':  OpKey(token.Sub),
		'c':  ClearKey(),
		'C':  ClearKey(),
		'=':  EvaluateKey(),
		'\n': EvaluateKey(),
	}
	for r, want := range cases {
		got, ok := Parse(r)
		if !ok || got != want {
			t.Fatalf("Parse(%q) = %+v, %v; want %+v", r, got, ok, want)
		}
	}
	for _, r := range []rune{'(', '^', '%', 'a', '_'} {
		if _, ok := Parse(r); ok {
			t.Fatalf("Parse(%q) returned ok=true", r)
		}
	}
}

func TestParseScript(t *testing.T) {
	ks, err := ParseScript("12 + 3×4 =")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(ks); got != "12+3*4=" {
		t.Fatalf("Format = %q", got)
	}
}

func TestParseScriptFullWidth(t *testing.T) {
	ks, err := ParseScript("１２＋３＝")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(ks); got != "12+3=" {
		t.Fatalf("Format = %q", got)
	}
}

func TestParseScriptLines(t *testing.T) {
	ks, err := ParseScript("1+1\r\n2*2\n")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(ks); got != "1+1=2*2=" {
		t.Fatalf("Format = %q", got)
	}
}

func TestParseScriptUnknown(t *testing.T) {
	_, err := ParseScript("1+(2)")
	if !errors.Is(err, diag.ErrInvalidKeystroke) {
		t.Fatalf("want invalid keystroke, got %v", err)
	}
	var de *diag.Error
	if !errors.As(err, &de) || de.Pos != 2 {
		t.Fatalf("want position 2, got %+v", de)
	}
}
