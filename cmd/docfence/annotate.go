package main

import (
	"github.com/spf13/cobra"

	"docfence/internal/driver"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [flags] [dir]",
	Short: "Retag fenced code blocks as text or rust,ignore",
	Long: `Scan every document under dir (default: the configured roots, then docs/src)
and fix the language tags of fenced code blocks. Untagged blocks and blocks that
look like program output become text; rust blocks that cannot compile on their
own become rust,ignore. Compound tags and other languages are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args, driver.PassAnnotate)
	},
}

func init() {
	addPassFlags(annotateCmd)
	annotateCmd.Flags().Bool("cache", false, "skip documents already known to be clean")
	annotateCmd.Flags().Bool("clear-cache", false, "drop cached results before scanning")
	annotateCmd.Flags().Bool("verify", true, "check that code block bodies are unchanged before writing")
}
