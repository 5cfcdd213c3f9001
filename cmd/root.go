package cmd

import (
	"context"
	"fmt"
	"log"

	"epub2pwa/batch"
	"epub2pwa/config"
	"epub2pwa/converter"
	"epub2pwa/model"
	"epub2pwa/template"

	"github.com/spf13/cobra"
)

type rootArgs struct {
	SourcePath  string
	OutputPath  string
	InfoURL     string
	BaseURL     string
	Description string
	BatchPath   string
	Debug       bool
}

var args rootArgs

var RootCmd = &cobra.Command{
	Use:           "epub2pwa",
	Short:         "Convert an epub into an offline-capable web app",
	Long:          "Convert an epub, or a batch of them listed in a JSON file, into static progressive web app bundles",
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.Flags()
	flags.StringVarP(&args.SourcePath, "epub", "e", "", "epub file to convert")
	flags.StringVarP(&args.OutputPath, "output", "o", config.DefaultOutput, "output folder")
	flags.StringVarP(&args.InfoURL, "infourl", "i", "", "url of a page describing the book")
	flags.StringVarP(&args.BaseURL, "baseurl", "u", "", "url the bundle is served from")
	flags.StringVarP(&args.Description, "description", "d", "", "book description")
	flags.StringVarP(&args.BatchPath, "batch", "b", "", "batch JSON file, converts every pending book and records the result")
	flags.BoolVar(&args.Debug, "debug", false, "log every converted resource")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cmd.Flags().Changed("output") {
		args.OutputPath = cfg.Output
	}
	if args.BatchPath == "" && args.SourcePath == "" {
		return fmt.Errorf("either --epub or --batch is required")
	}

	conv, err := converter.New(template.New(), converter.Options{
		MaxImageWidth: cfg.MaxImageWidth,
		Cover:         cfg.CoverOptions(),
		StagingDir:    cfg.StagingDir,
		Debug:         args.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}
	defer func() {
		if err := conv.Close(); err != nil {
			log.Printf("failed to remove staging directory: %v", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if args.BatchPath != "" {
		return runBatch(ctx, conv, args.BatchPath)
	}
	return runSingle(ctx, conv)
}

func runBatch(ctx context.Context, conv *converter.Converter, path string) error {
	store := batch.NewFileStore(path)
	job, err := store.Load()
	if err != nil {
		return err
	}
	if err := batch.New(conv, store).Run(ctx, job); err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	return nil
}

func runSingle(ctx context.Context, conv *converter.Converter) error {
	book := &model.Book{
		SourcePath:   args.SourcePath,
		OutputFolder: args.OutputPath,
		InfoURL:      args.InfoURL,
		BaseURL:      args.BaseURL,
		Description:  args.Description,
	}
	job := &model.BatchJob{Books: []*model.Book{book}}
	if err := batch.New(conv, nil).Run(ctx, job); err != nil {
		return err
	}
	if book.Status == model.StatusError {
		return fmt.Errorf("failed to convert %s: %s", book.SourcePath, book.Error)
	}
	log.Printf("Wrote %s", book.OutputFolder)
	return nil
}
