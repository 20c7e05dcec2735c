package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/deals-scraper/internal/adapter/chromedp_browser"
	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/usecase"
)

var checkChrome *string

func init() {
	checkChrome = checkCmd.Flags().String("chrome", "", "Chrome executable to check. Empty searches the usual locations.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [--chrome <path>]",
	Short: "Checks that a Chrome executable can be found.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		path := cfg.ChromePath
		if cmd.Flags().Changed("chrome") {
			path = *checkChrome
		}
		launcher := chromedp_browser.NewLauncher(cfg.Headless, cfg.UserDataDir, log)
		runner := usecase.NewRunner(launcher, nil, nil, nil, usecase.RunnerConfig{}, log)

		res := runner.CheckChrome(path)
		fmt.Fprintln(cmd.OutOrStdout(), res.Status)
		if res.Level != entity.LevelSuccess {
			return fmt.Errorf("%s", res.Status)
		}
		if found, err := launcher.Locate(path); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), found)
		}
		return nil
	},
}
