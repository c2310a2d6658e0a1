package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/logger"
	"github.com/Aashish23092/agent-ranking-parser/service"
	"github.com/spf13/cobra"
)

type rankOptions struct {
	fixes    string
	outDir   string
	formats  string
	password string
	pdfFont  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentrank",
		Short:         "Rank agents by sold volume from production report PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRankCmd())
	return root
}

func newRankCmd() *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank [files...]",
		Short: "Parse PDFs and write ranked CSV/PDF/XLSX exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitLoggerWithWriter(cmd.ErrOrStderr(), opts.logLevel)
			return runRank(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fixes, "fixes", "", `name fixes as JSON, or @path to a JSON file (e.g. {"Ry an Preston": "Ryan Preston"})`)
	cmd.Flags().StringVar(&opts.outDir, "out", "", "directory for export files (defaults to each PDF's directory)")
	cmd.Flags().StringVar(&opts.formats, "format", "csv,pdf", "comma separated export formats: csv, pdf, xlsx")
	cmd.Flags().StringVar(&opts.password, "password", "", "password for encrypted PDFs")
	cmd.Flags().StringVar(&opts.pdfFont, "pdf-font", "", "TrueType font for PDF exports, for names in scripts the built-in fonts lack")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	return cmd
}

func runRank(ctx context.Context, out io.Writer, paths []string, opts *rankOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formats, err := dto.ParseFormats(opts.formats)
	if err != nil {
		return err
	}

	fixesJSON, err := loadFixes(opts.fixes)
	if err != nil {
		return err
	}

	failed := 0
	docs := make([]dto.UploadedDocument, 0, len(paths))
	docPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			failed++
			fmt.Fprintf(out, "\n== %s ==\nError reading %s: %v\n", filepath.Base(p), p, err)
			continue
		}
		docs = append(docs, dto.UploadedDocument{Name: filepath.Base(p), Data: data, Password: opts.password})
		docPaths = append(docPaths, p)
	}

	exporter := service.NewExportService(logger.L)
	if opts.pdfFont != "" {
		ttf, err := os.ReadFile(opts.pdfFont)
		if err != nil {
			return fmt.Errorf("read pdf font: %w", err)
		}
		exporter.WithPDFFont(ttf)
	}

	svc := service.NewRankingService(service.NewPDFProcessor(), exporter)
	batch := svc.ProcessBatch(ctx, docs, fixesJSON, formats)

	for _, w := range batch.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	written := map[string]int{}
	for i, doc := range batch.Documents {
		fmt.Fprintf(out, "\n== %s ==\n", doc.Name)
		switch doc.Status {
		case dto.StatusError:
			failed++
			fmt.Fprintln(out, doc.Message)
			continue
		case dto.StatusEmpty:
			fmt.Fprintln(out, doc.Message)
			continue
		}

		printTable(out, doc.Table)

		dir := opts.outDir
		if dir == "" {
			dir = filepath.Dir(docPaths[i])
		}
		for _, file := range doc.Exports {
			target := uniqueTarget(filepath.Join(dir, file.FileName), written)
			if err := os.WriteFile(target, file.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(out, "wrote %s\n", target)
		}
	}

	if failed == len(paths) {
		return errors.New("no document could be processed")
	}
	return nil
}

// uniqueTarget numbers a path already written in this run, so inputs that
// share a base name do not overwrite each other's exports.
func uniqueTarget(target string, written map[string]int) string {
	n := written[target]
	written[target] = n + 1
	if n == 0 {
		return target
	}
	ext := filepath.Ext(target)
	for {
		n++
		candidate := fmt.Sprintf("%s_%d%s", strings.TrimSuffix(target, ext), n, ext)
		if written[candidate] == 0 {
			written[candidate] = 1
			written[target] = n
			return candidate
		}
	}
}

func printTable(out io.Writer, table dto.RankedTable) {
	report := service.BuildReportTable(table)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(report.Header, "\t"))
	for _, row := range report.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw, strings.Join(report.Total, "\t"))
	_ = tw.Flush()
}

func loadFixes(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", fmt.Errorf("read name fixes: %w", err)
	}
	return string(data), nil
}
