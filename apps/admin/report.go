package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/classportal/apps"
)

// report prints the ranked attendance summary.
func (cli *commandLine) report(ctx context.Context, unit string) error {
	var units []string
	if unit != "" {
		units = []string{unit}
	}
	summaries, err := cli.attSvc.Report(ctx, units...)
	if err != nil {
		return errors.Wrap(err, "building report")
	}

	title := "All units"
	if unit != "" {
		title = unit
	}
	_, _ = fmt.Fprintf(cli.out, "Attendance report: %s\n\n", title)

	bands := cli.attSvc.Bands()
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tID\tNAME\tPRESENT\tABSENT\tATTENDANCE\tBAND")
	for i, s := range summaries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d%%\t%s\n",
			i+1, s.Student.ID, s.Student.Name, s.TotalPresent, s.TotalAbsent, s.Percentage, s.Band(bands))
	}
	return w.Flush()
}

// clearAttendance deletes every attendance record; yes must be set.
func (cli *commandLine) clearAttendance(ctx context.Context, yes bool) error {
	if !yes {
		return apps.NewArgumentError("refusing to delete every attendance record without -yes")
	}
	cnt, err := cli.attSvc.ClearAll(ctx)
	if err != nil {
		return errors.Wrap(err, "clearing attendance")
	}
	_, _ = fmt.Fprintf(cli.out, "%d attendance records deleted\n", cnt)
	return nil
}
