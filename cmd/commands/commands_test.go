package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "send", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	if root.PersistentFlags().Lookup("conf") == nil {
		t.Error("root command should define --conf")
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "Version:") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil || info["version"] == "" {
		t.Errorf("JSON output = %q, %v", out.String(), err)
	}
}
