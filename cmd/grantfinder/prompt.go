package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grant_finder/pkg/core/app"
	"grant_finder/pkg/core/prompt"
	"grant_finder/pkg/models"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [query]",
	Short: "Print the research prompt that would be sent",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		reg := prompt.Get()
		if cfg.PromptDir != "" {
			if _, err := prompt.LoadFromDirectory(reg, cfg.PromptDir); err != nil {
				return err
			}
		}

		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, id := range reg.ListPrompts() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		}

		lang := cfg.Language()
		if l, _ := cmd.Flags().GetString("lang"); l != "" {
			lang = models.ParseLanguage(l)
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		query = app.NormalizeQuery(query, lang)

		res, err := prompt.BuildResearch(reg, lang, query)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "--- system ---")
		fmt.Fprintln(out, res.System)
		fmt.Fprintln(out, "--- user ---")
		fmt.Fprintln(out, res.User)
		return nil
	},
}

func init() {
	promptCmd.Flags().String("lang", "", "ar or en (default from config)")
	promptCmd.Flags().Bool("list", false, "list registered prompt ids and exit")
	rootCmd.AddCommand(promptCmd)
}
