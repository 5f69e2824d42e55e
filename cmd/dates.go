package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/nbalance/core/series"
)

var datesCmd = &cobra.Command{
	Use:   "dates START END",
	Short: "Print the inclusive simulation date sequence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(time.DateOnly, args[0])
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		end, err := time.Parse(time.DateOnly, args[1])
		if err != nil {
			return fmt.Errorf("end: %w", err)
		}
		dates := series.DateSeries(start, end)
		if len(dates) == 0 {
			return fmt.Errorf("end %s is before start %s", args[1], args[0])
		}
		for _, d := range dates {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), d.Format(time.DateOnly)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}
