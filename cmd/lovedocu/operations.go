package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/ternarybob/lovedocu/internal/services/pdf"
	"github.com/ternarybob/lovedocu/internal/services/workspace"
)

var (
	outDir        string
	splitPages    []string
	watermarkText string
)

func init() {
	mergeCmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Merge PDF files into merged.pdf, in argument order",
		Args:  cobra.MinimumNArgs(1),
		RunE: runOperation(func(ctx context.Context, svc interfaces.DocumentService, docs []models.UploadedDocument) (*models.Result, error) {
			return svc.Merge(ctx, models.MergeRequest{Documents: docs})
		}),
	}

	splitCmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Write the selected pages, in the order given, to split.pdf",
		Example: `  lovedocu split report.pdf --pages "Page 3,Page 1"
  lovedocu split report.pdf --pages 2 --pages 2`,
		Args: cobra.ExactArgs(1),
		RunE: runOperation(func(ctx context.Context, svc interfaces.DocumentService, docs []models.UploadedDocument) (*models.Result, error) {
			return svc.Split(ctx, models.SplitRequest{Document: docs[0], Pages: models.SplitLabels(splitPages)})
		}),
	}
	splitCmd.Flags().StringSliceVar(&splitPages, "pages", nil, `pages to keep, as "Page N" or "N" (repeatable or comma separated)`)

	compressCmd := singleFileCommand("compress", "Optimize a PDF into compressed.pdf", func(svc interfaces.DocumentService) singleFunc {
		return svc.Compress
	})
	wordCmd := singleFileCommand("word", "Convert a PDF's text to converted.docx", func(svc interfaces.DocumentService) singleFunc {
		return svc.ConvertToWord
	})
	excelCmd := singleFileCommand("excel", "Convert a PDF's text to converted.xlsx, one row per page", func(svc interfaces.DocumentService) singleFunc {
		return svc.ConvertToExcel
	})
	jpgCmd := singleFileCommand("jpg", "Render every page to page_N.jpg", func(svc interfaces.DocumentService) singleFunc {
		return svc.ConvertToJPG
	})

	watermarkCmd := &cobra.Command{
		Use:   "watermark [file]",
		Short: "Stamp text on every page into watermarked.pdf",
		Args:  cobra.ExactArgs(1),
		RunE: runOperation(func(ctx context.Context, svc interfaces.DocumentService, docs []models.UploadedDocument) (*models.Result, error) {
			return svc.Watermark(ctx, models.WatermarkRequest{Document: docs[0], Text: watermarkText})
		}),
	}
	watermarkCmd.Flags().StringVar(&watermarkText, "text", "", "watermark text")

	for _, cmd := range []*cobra.Command{mergeCmd, splitCmd, compressCmd, wordCmd, excelCmd, jpgCmd, watermarkCmd} {
		cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory the result files are written to")
		rootCmd.AddCommand(cmd)
	}
}

type singleFunc func(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)

func singleFileCommand(name, short string, pick func(svc interfaces.DocumentService) singleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [file]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: runOperation(func(ctx context.Context, svc interfaces.DocumentService, docs []models.UploadedDocument) (*models.Result, error) {
			return pick(svc)(ctx, docs[0])
		}),
	}
}

// runOperation reads the argument files, runs fn against a local document
// service and writes every result file into --out
func runOperation(fn func(ctx context.Context, svc interfaces.DocumentService, docs []models.UploadedDocument) (*models.Result, error)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		docs, err := readDocuments(args)
		if err != nil {
			return err
		}

		workspaces, err := workspace.NewManager(config.Workspace.Root, logger)
		if err != nil {
			return err
		}
		svc := pdf.NewService(workspaces, config.Render, logger)

		result, err := fn(cmd.Context(), svc, docs)
		if err != nil {
			return err
		}

		written, err := writeResult(outDir, result)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
		}
		return nil
	}
}

func readDocuments(paths []string) ([]models.UploadedDocument, error) {
	docs := make([]models.UploadedDocument, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, models.UploadedDocument{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}

// writeResult writes the result files into dir and returns their paths.
// On failure the files already written are removed again.
func writeResult(dir string, result *models.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		path := filepath.Join(dir, filepath.Base(f.Name))
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			for _, written := range paths {
				if rmErr := os.Remove(written); rmErr != nil {
					logger.Warn().Err(rmErr).Str("path", written).Msg("Failed to remove partial output")
				}
			}
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
