package main

import "testing"

func TestRootCmdHasServeSubcommand(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Find(serve) error: %v", err)
	}
	if cmd.Use != "serve" {
		t.Fatalf("found command Use = %q, want %q", cmd.Use, "serve")
	}
}

func TestServeCmdFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	checks := map[string]string{
		"log-level":         "info",
		"log-format":        "text",
		"write-timeout":     "2m0s",
		"max-request-size":  "1048576",
		"shutdown-timeout":  "30s",
	}
	for name, want := range checks {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("missing flag %q", name)
		}
		if got := f.DefValue; got != want {
			t.Fatalf("flag %q default = %q, want %q", name, got, want)
		}
	}
}
