package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := ParseFormat(f.String())
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if got != f {
			t.Errorf("%s: got %s", f, got)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("toml: %v", err)
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a/b/settings.ini", INIFormat, true},
		{"game.CFG", INIFormat, true},
		{"x.json", JSONFormat, true},
		{"x.xml", XMLFormat, true},
		{"x.yml", YAMLFormat, true},
		{"x.yaml", YAMLFormat, true},
		{"save.bsbd", BinaryFormat, true},
		{"x.txt", 0, false},
		{"noext", 0, false},
	}
	for _, tt := range tests {
		got, ok := FromPath(tt.path)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%s: got %s %t", tt.path, got, ok)
		}
	}
}

func TestSuffixReadsBack(t *testing.T) {
	for _, f := range AllFormats() {
		got, ok := FromPath("doc" + f.Suffix())
		if !ok || got != f {
			t.Errorf("%s: suffix %q gives %s", f, f.Suffix(), got)
		}
	}
}
