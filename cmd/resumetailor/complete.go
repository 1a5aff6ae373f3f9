package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/render"
	"github.com/amishk599/resumetailor/internal/source"
	"github.com/spf13/cobra"
)

var errCompletionFailed = errors.New("completion failed, see the log for details")

type completeFlags struct {
	job    string
	resume string
	html   bool
	out    string
}

func newCompleteCmd(mode ai.Mode, short string) *cobra.Command {
	var f completeFlags
	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
		Long:  short + ". The result is markdown on stdout unless --html or --out is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(mode, f)
		},
	}
	cmd.Flags().StringVar(&f.job, "job", "", "job description file or URL (required)")
	cmd.Flags().StringVar(&f.resume, "resume", "", "resume file: txt, md, pdf or docx (required)")
	cmd.Flags().BoolVar(&f.html, "html", false, "emit a standalone HTML page instead of markdown")
	cmd.Flags().StringVar(&f.out, "out", "", "write the result to this file instead of stdout")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		newCompleteCmd(ai.ModeRecommend, "Recommend which experiences to emphasize for a job"),
		newCompleteCmd(ai.ModeTailor, "Rewrite your resume for a job"),
	)
}

func runComplete(mode ai.Mode, f completeFlags) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := source.NewLoader(nil)
	jd, err := loader.Load(ctx, f.job)
	if err != nil {
		return fmt.Errorf("load job description: %w", err)
	}
	resume, err := loader.Load(ctx, f.resume)
	if err != nil {
		return fmt.Errorf("load resume: %w", err)
	}

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		return err
	}
	defer p.close()

	logger.Info("requesting completion", "mode", mode.String(), "job_chars", len(jd), "resume_chars", len(resume))
	c := p.recorder.Generate(ctx, jd, resume, mode)
	if c.Failed {
		fmt.Fprintln(os.Stderr, c.Result)
		return errCompletionFailed
	}

	output := c.Result
	if f.html {
		title := "Recommendations"
		if mode == ai.ModeTailor {
			title = "Tailored Resume"
		}
		if output, err = render.Document(title, c.Result); err != nil {
			return err
		}
	}

	if f.out == "" {
		fmt.Println(output)
		return nil
	}
	if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.out, err)
	}
	logger.Info("result written", "path", f.out, "id", c.ID)
	return nil
}
