package token

import (
	"errors"
	"testing"
)

func scanOne(t *testing.T, in string) (string, error) {
	t.Helper()
	s := NewScanner([]byte(in))
	return s.Quoted()
}

func TestQuotedStrings(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{in: `"abc"`, out: "abc"},
		{in: `"\"'"`, out: `"'`},
		{in: `'"'`, out: `"`},
		{in: `'a\nb'`, out: `a\nb`},
		{in: `"\t"`, out: "\t"},
		{in: `"∞"`, out: "∞"},
		{in: `"😀"`, out: "😀"},
		{in: `"\U0001F600"`, out: "😀"},
		{in: "\"\nline1\nline2\n\"", out: "line1\nline2"},
		{in: "'\n  line1\n  line2\n  '", out: "  line1\n  line2"},
		{in: "\"first\nsecond\"", out: "first\nsecond"},
		{in: "\"\n\nabc\n\"", out: "\nabc"},
		{in: "\"\r\nabc\r\n\"", out: "abc"},
		{in: "\"  \"", out: "  "},
	}
	for _, tt := range tests {
		got, err := scanOne(t, tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.out {
			t.Errorf("%q: got %q want %q", tt.in, got, tt.out)
		}
	}
}

func TestQuotedErrors(t *testing.T) {
	for _, in := range []string{`"abc`, `'abc`, `"\q"`, `"\u12"`, `"abc\`} {
		_, err := scanOne(t, in)
		if err == nil {
			t.Errorf("%q: expected error", in)
			continue
		}
		var te *TokenizeErr
		if !errors.As(err, &te) {
			t.Errorf("%q: error %v is not positional", in, err)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, v := range []string{
		"",
		`"`,
		`'`,
		"\t\n\v\r\b",
		"∞∞",
		`"""''`,
		"a\\b",
		"line1\nline2",
		"\nleading",
		"trailing\n",
		"  \nblank first",
		"blank last\n  ",
		"\r\n",
	} {
		for _, q := range []string{Quote(v), QuoteMultiline(v)} {
			got, err := scanOne(t, q)
			if err != nil {
				t.Errorf("error scanning %q (from %q): %v", q, v, err)
				continue
			}
			if got != v {
				t.Errorf("scan(%q) = %q, want %q", q, got, v)
			}
		}
	}
}
