package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"MarketBulletin/internal/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// errNothingSucceeded makes the process exit non-zero when every section failed.
var errNothingSucceeded = errors.New("no section succeeded")

func init() {
	rootCmd.AddCommand(runCmd, listCmd, recordPCRCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [section...]",
	Short: "Runs the report sections once and writes their artifacts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.runner.Run(cmd.Context(), args...)
		if err != nil {
			return err
		}
		printSummary(sum)
		if sum.Succeeded() == 0 {
			return errNothingSucceeded
		}
		return nil
	},
}

func printSummary(sum *report.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Section", "Status", "Time", "Detail"})
	for _, r := range sum.Results {
		status, detail := "ok", r.Summary
		if !r.OK {
			status = r.Kind()
			detail = r.Err.Error()
		}
		t.AppendRow(table.Row{r.Section, status, r.Duration.Round(time.Millisecond), detail})
	}
	t.AppendFooter(table.Row{"", "", "", sum.String()})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the available sections in run order and the registered sources.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Section", "Title"})
		for _, s := range a.runner.Sections() {
			t.AppendRow(table.Row{s.ID(), s.Title()})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		src := table.NewWriter()
		src.SetOutputMirror(os.Stdout)
		src.AppendHeader(table.Row{"Source"})
		for _, name := range a.env.Registry.Names() {
			src.AppendRow(table.Row{name})
		}
		src.SetStyle(table.StyleRounded)
		src.Render()
		return nil
	},
}

var recordPCRCmd = &cobra.Command{
	Use:   "record-pcr",
	Short: "Appends today's Nifty put/call ratio to the PCR history file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		reading, written, err := report.RecordPCR(cmd.Context(), a.env)
		if err != nil {
			return err
		}
		if !written {
			fmt.Printf("PCR for %s already recorded\n", reading.Date.Format("2006-01-02"))
			return nil
		}
		fmt.Printf("PCR %.4f recorded for %s\n", reading.Value, reading.Date.Format("2006-01-02"))
		return nil
	},
}
