package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"iwutil/internal/batch"
	"iwutil/internal/codec"
	"iwutil/internal/slogx"
	"iwutil/read"
	"iwutil/save"
	"iwutil/table"
)

func newRootCmd(initApp func() (*App, error)) *cobra.Command {
	var (
		a        *App
		logLevel string
	)
	root := &cobra.Command{
		Use:   "iwutil",
		Short: "Save, read, convert and interpolate tabular data files",
		Long: `iwutil reads and writes tables in csv, txt/tsv (tab-separated), json,
parquet and feather. The file extension picks the format.

Environment:
  DATA_DIR      default output dir for convert-dir (data)
  SAVE_FORMAT   default format for convert-dir (parquet; csv when PROFILE=dev)
  LOG_LEVEL     debug | info | warn | error
  LOG_FORMAT    text | json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = initApp()
			if err != nil {
				return err
			}
			if logLevel != "" {
				a.Config.LogLevel = logLevel
				a.Logger = slogx.New(cmd.ErrOrStderr(), logLevel, a.Config.LogFormat)
				a.Converter.Logger = a.Logger
			}
			slog.SetDefault(a.Logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	getApp := func() *App { return a }
	root.AddCommand(
		newConvertCmd(getApp),
		newConvertDirCmd(getApp),
		newInspectCmd(),
		newInterpCmd(getApp),
		newCopyCmd(getApp),
		newMkdirCmd(getApp),
	)
	return root
}

func newConvertCmd(getApp func() *App) *cobra.Command {
	var (
		columns []string
		raw     bool
	)
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Convert one table file to the format of dst's extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []read.Option
			if len(columns) > 0 {
				opts = append(opts, read.WithColumns(columns...))
			}
			if raw {
				opts = append(opts, read.WithRawStrings())
			}
			t, err := read.Table(args[0], opts...)
			if err != nil {
				return err
			}
			if err := save.Table(t, args[1]); err != nil {
				return err
			}
			getApp().Logger.Info("converted", "src", args[0], "dst", args[1], "rows", t.Len(), "columns", t.NumColumns())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "keep only these columns, in this order")
	cmd.Flags().BoolVar(&raw, "raw", false, "keep csv/txt cells as strings")
	return cmd
}

func newConvertDirCmd(getApp func() *App) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "convert-dir <src-dir>",
		Short: "Convert every table file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			conv := *a.Converter
			if out != "" {
				conv.Out = out
			}
			if format != "" {
				c, err := codec.Lookup(format)
				if err != nil {
					return err
				}
				conv.Codec = c
			}
			a.Logger.Info("convert dir", "src", args[0], "out", conv.Out, "format", conv.Codec.Extension())

			res, err := conv.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.Logger.Info("convert done", "success", len(res.Success), "failed", len(res.Failed), "skipped", res.Skipped)
			if len(res.Failed) > 0 {
				a.Logger.Info("summary failed", "count", len(res.Failed), "reasons", batch.JoinFailedReasons(res.Failed))
				return fmt.Errorf("%d of %d files failed", len(res.Failed), len(res.Failed)+len(res.Success))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output dir (default DATA_DIR)")
	cmd.Flags().StringVar(&format, "format", "", "output format (default SAVE_FORMAT)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the columns and first rows of a table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := read.Table(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows x %d columns\n", args[0], t.Len(), t.NumColumns())
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(t, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 5, "number of rows to show")
	return cmd
}

func renderTable(t *table.Table, limit int) string {
	headers := make([]string, t.NumColumns())
	for j, name := range t.Columns() {
		headers[j] = fmt.Sprintf("%s (%s)", name, t.ColumnKind(j))
	}
	lt := ltable.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for i := 0; i < t.Len() && i < limit; i++ {
		cells := t.Row(i)
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = table.FormatCell(c)
		}
		lt.Row(row...)
	}
	return lt.Render()
}

func newCopyCmd(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a file, creating the destination folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := save.CopyFile(args[0], args[1]); err != nil {
				return err
			}
			getApp().Logger.Info("copied", "src", args[0], "dst", args[1])
			return nil
		},
	}
}

func newMkdirCmd(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <dir>",
		Short: "Create a folder and its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := save.CreateFolder(args[0]); err != nil {
				return err
			}
			getApp().Logger.Debug("folder ready", "dir", args[0])
			return nil
		},
	}
}
