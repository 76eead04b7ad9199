package cli

import (
	"io"
	"reflect"
	"testing"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"draw":       false,
		"scan":       false,
		"store":      false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing the %s subcommand", name)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"region", []string{"region"}},
		{"region,cluster", []string{"region", "cluster"}},
		{" region , ,cluster ", []string{"region", "cluster"}},
	}
	for _, tc := range tests {
		if got := parseList(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseList(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLoadStyleDefault(t *testing.T) {
	c := New(io.Discard, LogInfo)
	style, err := c.loadStyle("")
	if err != nil {
		t.Fatalf("loadStyle(\"\") failed: %v", err)
	}
	if style.Scale <= 0 || style.ArrowHeight <= 0 {
		t.Errorf("default style not applied: %+v", style)
	}
}

func TestNewScannerEmpty(t *testing.T) {
	s, err := newScanner(nil, 0)
	if err != nil || s != nil {
		t.Errorf("newScanner(nil) = %v, %v; want nil scanner, nil error", s, err)
	}
}
