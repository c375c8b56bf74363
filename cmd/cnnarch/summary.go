package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/models"
)

func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print every layer with its output shape and parameter count",
		Args:  cobra.NoArgs,
		RunE:  summaryHandler,
	}
	cmd.Flags().Int("depth", -1, "Maximum nesting depth to show (-1 for all)")

	return cmd
}

func summaryHandler(cmd *cobra.Command, args []string) error {
	l, err := loadModel(cmd)
	if err != nil {
		return err
	}
	maxDepth, _ := cmd.Flags().GetInt("depth")

	rows, err := models.Summarize[*cpu.Backend](l.model, batchShape(1, l.input))
	if err != nil {
		return err
	}

	var data [][]string
	for _, r := range rows {
		if maxDepth >= 0 && r.Depth > maxDepth {
			continue
		}
		path := r.Path
		if path == "" {
			path = "-"
		}
		data = append(data, []string{
			strings.Repeat("  ", r.Depth) + r.Layer,
			path,
			r.Output.String(),
			strconv.Itoa(r.Params),
		})
	}

	out := cmd.OutOrStdout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"LAYER", "PATH", "OUTPUT SHAPE", "PARAMS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if c, ok := l.model.(*models.ConvClassifier[*cpu.Backend]); ok {
		fmt.Fprintf(out, "\nfeatures: %d  pools: %d\n", c.NumFeatures(), c.NumPools())
	}
	return nil
}
