package main

import (
	"github.com/spf13/cobra"

	"docfence/internal/driver"
)

var repairCmd = &cobra.Command{
	Use:   "repair [flags] [dir]",
	Short: "Strip tags that were stamped onto closing fences",
	Long: `Undo a naive rewrite that tagged closing fences (` + "```text" + ` after a block).
A fence is treated as a closer when a lone closing brace precedes it or markdown
(a heading, a rule, bold text, a quote, "Output") follows it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd, args, driver.PassRepair)
	},
}

func init() {
	addPassFlags(repairCmd)
}
