package main

import (
	"context"
	"fmt"

	"github.com/amishk599/resumetailor/internal/render"
	"github.com/amishk599/resumetailor/internal/source"
	"github.com/amishk599/resumetailor/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	wizardJob    string
	wizardResume string
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Walk through the interactive tailoring wizard (TUI)",
	Long:  "Paste a job description and your resume, review recommendations, then generate, copy or export a tailored resume.",
	RunE:  runWizard,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, wizardCmd} {
		cmd.Flags().StringVar(&wizardJob, "job", "", "prefill the job description from a file or URL")
		cmd.Flags().StringVar(&wizardResume, "resume", "", "prefill the resume from a file (txt, md, pdf, docx)")
	}
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	// Any log output before the alt-screen starts corrupts the display.
	logger, closeLog := setupTUILogger(debug)
	defer closeLog()

	ctx := context.Background()
	p, err := buildPipeline(ctx, logger)
	if err != nil {
		return err
	}
	defer p.close()

	loader := source.NewLoader(nil)
	opts := wizard.Options{
		Generator: p.recorder,
		Copier:    render.SystemCopier{},
		ExportDir: ".",
	}
	if wizardJob != "" {
		if opts.JobDescription, err = loader.Load(ctx, wizardJob); err != nil {
			return fmt.Errorf("load job description: %w", err)
		}
	}
	if wizardResume != "" {
		if opts.Resume, err = loader.Load(ctx, wizardResume); err != nil {
			return fmt.Errorf("load resume: %w", err)
		}
	}

	return wizard.RunWizard(opts)
}
