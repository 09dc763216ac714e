package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"docfence/internal/classify"
	"docfence/internal/repair"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the ordered classification and repair rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "text", "output format (text|json)")
}

type ruleRow struct {
	Order   int    `json:"order"`
	Group   string `json:"group"`
	Name    string `json:"name"`
	Scope   string `json:"scope"`
	Result  string `json:"result"`
	Pattern string `json:"pattern"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	rows := collectRules(classify.New(cfg.ClassifyOptions()), repair.New(cfg.Repair.Tag))

	switch strings.ToLower(format) {
	case "text":
		renderRulesText(cmd.OutOrStdout(), rows)
		return nil
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	default:
		return fmt.Errorf("rules: unsupported output format %q", format)
	}
}

func collectRules(c *classify.Classifier, r *repair.Repairer) []ruleRow {
	opts := c.Options()
	rows := make([]ruleRow, 0, len(c.Rules())+len(r.Rules()))
	for _, rule := range c.Rules() {
		result := opts.OutputTag
		if rule.Verdict() == classify.Ignore {
			result = c.IgnoreTag()
		}
		rows = append(rows, ruleRow{
			Order:   len(rows) + 1,
			Group:   rule.Kind.String(),
			Name:    rule.Name,
			Scope:   rule.Scope.String(),
			Result:  result,
			Pattern: rule.Pattern,
		})
	}
	for _, rule := range r.Rules() {
		rows = append(rows, ruleRow{
			Order:   len(rows) + 1,
			Group:   "repair",
			Name:    rule.Name,
			Scope:   "document",
			Result:  "```",
			Pattern: rule.Pattern.String(),
		})
	}
	return rows
}

func renderRulesText(out io.Writer, rows []ruleRow) {
	headers := []string{"#", "GROUP", "RULE", "SCOPE", "RESULT", "PATTERN"}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{fmt.Sprint(row.Order), row.Group, row.Name, row.Scope, row.Result, row.Pattern})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, line := range cells {
		// последнюю колонку не выравниваем
		for i := 0; i < len(line)-1; i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(line[i]))
		}
	}

	bold := color.New(color.Bold)
	bold.Fprintln(out, formatRow(headers, widths))
	for _, line := range cells {
		fmt.Fprintln(out, formatRow(line, widths))
	}
}

func formatRow(cols []string, widths []int) string {
	var b strings.Builder
	for i, col := range cols {
		if i == len(cols)-1 {
			b.WriteString(col)
			break
		}
		b.WriteString(runewidth.FillRight(col, widths[i]))
		b.WriteString("  ")
	}
	return strings.TrimRight(b.String(), " ")
}
