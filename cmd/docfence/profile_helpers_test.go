package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func profilingCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "docfence"}
	cmd.PersistentFlags().String("cpu-profile", "", "")
	cmd.PersistentFlags().String("mem-profile", "", "")
	cmd.PersistentFlags().String("runtime-trace", "", "")
	if err := cmd.PersistentFlags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestSetupProfilingDisabled(t *testing.T) {
	cleanup, err := setupProfiling(profilingCmd(t))
	if err != nil {
		t.Fatalf("setupProfiling: %v", err)
	}
	cleanup()
	cleanup()
}

func TestSetupProfilingWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	cleanup, err := setupProfiling(profilingCmd(t, "--cpu-profile", cpu, "--mem-profile", mem))
	if err != nil {
		t.Fatalf("setupProfiling: %v", err)
	}
	cleanup()
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}
}
