package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"globalsouth/internal/dataset"
	"globalsouth/internal/report"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the data table and summary statistics",
	RunE:  runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	table := tablewriter.NewWriter(out)
	table.SetHeader(snap.Table.Header)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(snap.Table.Rows)
	table.Render()

	in := report.Build(snap, dataset.Regions)
	fmt.Fprintln(out)

	summary := tablewriter.NewWriter(out)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.SetAutoFormatHeaders(false)
	summary.Append([]string{fmt.Sprintf("Starting share (%d)", in.FirstYear), fmt.Sprintf("%.2f%%", in.StartShare)})
	summary.Append([]string{fmt.Sprintf("Current share (%d)", in.LastYear), fmt.Sprintf("%.2f%%", in.CurrentShare)})
	summary.Append([]string{"Lowest share", fmt.Sprintf("%.2f%%", in.MinShare)})
	summary.Append([]string{"Highest share", fmt.Sprintf("%.2f%%", in.MaxShare)})
	summary.Append([]string{"Leading region", string(in.LeadingRegion)})
	summary.Render()
	return nil
}
