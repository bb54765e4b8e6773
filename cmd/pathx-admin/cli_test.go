package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args []string
		want command
	}{
		{[]string{"seed"}, command{name: "seed", scope: seeding.ScopeAll}},
		{[]string{"seed", "-clear", "-scope", "seeded"}, command{name: "seed", clearFirst: true, scope: seeding.ScopeSeeded}},
		{[]string{"clear", "-confirm"}, command{name: "clear", scope: seeding.ScopeAll, confirm: true}},
		{[]string{"promote", "-token", "abc"}, command{name: "promote", token: "abc"}},
		{[]string{"migrate"}, command{name: "migrate"}},
		{[]string{"migrate", "-down"}, command{name: "migrate", down: true}},
		{[]string{"serve"}, command{name: "serve"}},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.args, &bytes.Buffer{})
		if err != nil {
			t.Errorf("parseCommand(%v): %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCommand(%v) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestParseCommand_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"explode"},
		{"seed", "-scope", "everything"},
		{"clear", "-nope"},
		{"migrate", "extra"},
		{"help"},
	} {
		var stderr bytes.Buffer
		if _, err := parseCommand(args, &stderr); !errors.Is(err, errUsage) {
			t.Errorf("parseCommand(%v) err = %v, want errUsage", args, err)
		}
		if stderr.Len() == 0 {
			t.Errorf("parseCommand(%v) printed nothing", args)
		}
	}
}

func TestUsage_DocumentsClearConfirmation(t *testing.T) {
	var stderr bytes.Buffer
	_, _ = parseCommand([]string{"help"}, &stderr)
	out := stderr.String()
	for _, want := range []string{"seed -clear", "-confirm", "-scope seeded", "migrate  [-down]"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("usage does not mention %q:\n%s", want, out)
		}
	}
}
