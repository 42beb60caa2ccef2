package main

import (
	"os"
	"strings"
	"testing"
)

func TestGonomicsVersion(t *testing.T) {
	mod, err := os.ReadFile("../../go.mod")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mod), "github.com/vertgenlab/gonomics v"+gonomicsVersion+"\n") {
		t.Errorf("banner reports gonomics %s but go.mod requires a different version", gonomicsVersion)
	}
}

func TestCommandMap(t *testing.T) {
	m := commandMap()
	for _, name := range []string{"wildtype", "compare", "clean"} {
		if m[name] == nil {
			t.Errorf("subcommand %s not registered", name)
		}
	}
	if len(m) != len(SubCommands) {
		t.Errorf("expected %d subcommands, got %d", len(SubCommands), len(m))
	}
}
