package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grant_finder/pkg/api"
	"grant_finder/pkg/api/search"
	"grant_finder/pkg/core/app"
	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/terminal"
	"grant_finder/pkg/models"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run one search and print the report",
	Long: `search sends one query to the research service and prints the report.
With no query the default "all recent open grants" search is used. With --pdf
the report is rendered in a headless browser and saved as a PDF instead.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("lang", "", "report language: ar or en (default from config)")
	searchCmd.Flags().String("pdf", "", "write the report as PDF to this directory")
	searchCmd.Flags().Int("width", terminal.DefaultWidth, "terminal width for text output")
	searchCmd.Flags().Bool("plain", false, "print unstyled text")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		cfg.DefaultLanguage = l
	}
	lang := cfg.Language()

	services, err := api.NewServices(cfg, logger)
	if err != nil {
		return err
	}

	ctrl := services.NewController(cmd.Context())
	if err := ctrl.Submit(strings.Join(args, " ")); err != nil {
		return err
	}
	ctrl.Wait()

	width, _ := cmd.Flags().GetInt("width")
	r := terminal.New(lang, width)
	r.Plain, _ = cmd.Flags().GetBool("plain")
	out := cmd.OutOrStdout()

	snap := ctrl.Snapshot()
	switch st := snap.State.(type) {
	case app.ShowingResult:
		dir, _ := cmd.Flags().GetString("pdf")
		if dir == "" {
			return r.Render(out, st.Result)
		}
		return writePDF(cmd, services, st, lang, dir, logger)
	case app.AwaitingAuthorization:
		msg := st.Message
		if msg == "" {
			msg = errclass.NoCredential(lang).Message
		}
		_ = r.RenderError(cmd.ErrOrStderr(), &errclass.Error{Kind: errclass.KindNoCredential, Message: msg})
		return fmt.Errorf("no usable API key; set GEMINI_API_KEY")
	case app.Failed:
		_ = r.RenderError(cmd.ErrOrStderr(), &errclass.Error{Kind: st.Kind, Message: st.Message})
		return fmt.Errorf("search failed: %s", st.Kind)
	default:
		return fmt.Errorf("unexpected state %s", snap.State.Name())
	}
}

func writePDF(cmd *cobra.Command, s *api.Services, st app.ShowingResult, lang models.Language, dir string, logger *zap.Logger) error {
	page := search.ReportPage{
		Language: lang,
		Query:    st.Query,
		Result:   st.Result,
		Compiled: time.Now(),
		Export:   true,
	}
	var buf bytes.Buffer
	if err := search.RenderReport(&buf, page); err != nil {
		return err
	}

	doc, err := s.Exporter.Export(cmd.Context(), buf.String(), page.Title(), lang)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("report saved", zap.String("path", path), zap.Int("pages", doc.Pages))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
