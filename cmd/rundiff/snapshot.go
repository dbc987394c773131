package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkoosis/rundiff/internal/detect"
	"github.com/dkoosis/rundiff/pkg/archive"
	"github.com/dkoosis/rundiff/pkg/cobertura"
	"github.com/dkoosis/rundiff/pkg/junit"
)

func (a *app) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and list archived report snapshots",
	}
	var db string
	cmd.PersistentFlags().StringVar(&db, "db", "", "snapshot archive path")
	cmd.AddCommand(a.snapshotSaveCmd(), a.snapshotListCmd())
	return cmd
}

func (a *app) snapshotSaveCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "save FILE",
		Short: "Archive a JUnit or Cobertura report under a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			data, err := a.readAny(path)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			store, err := archive.Open(ctx, a.cfg.ArchivePath, a.log)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			defer store.Close()

			var id string
			var kind archive.Kind
			var n int
			switch detect.Sniff(data) {
			case detect.JUnit:
				set, err := junit.ReadBytes(data)
				if err != nil {
					return &exitError{code: 2, err: fmt.Errorf("%s: %w", path, err)}
				}
				set = set.WithOrigin(path)
				kind, n = archive.KindTests, set.Len()
				id, err = store.SaveTests(ctx, label, set)
				if err != nil {
					return &exitError{code: 2, err: err}
				}
			default:
				set, err := cobertura.ReadBytes(data)
				if err != nil {
					return &exitError{code: 2, err: fmt.Errorf("%s: %w", path, err)}
				}
				set = set.WithOrigin(path)
				kind, n = archive.KindCoverage, set.Len()
				id, err = store.SaveCoverage(ctx, label, set)
				if err != nil {
					return &exitError{code: 2, err: err}
				}
			}
			fmt.Fprintf(a.stdout, "saved %s snapshot %s (label %q, %d records)\n", kind, id, label, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "snapshot label, e.g. a branch name")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

// readAny reads a report of either supported format.
func (a *app) readAny(path string) ([]byte, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	if detect.Sniff(data) == detect.Unknown {
		return nil, fmt.Errorf("%s: not a JUnit or Cobertura report", path)
	}
	return data, nil
}

func (a *app) snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := archive.Open(ctx, a.cfg.ArchivePath, a.log)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			defer store.Close()

			snaps, err := store.List(ctx)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			if a.outputFormat() == "json" {
				if snaps == nil {
					snaps = []archive.Snapshot{}
				}
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snaps)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tLABEL\tRECORDS\tCREATED")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Kind, s.Label, s.Records, s.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
