package commands

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/adapter/chromedp_browser"
	"github.com/user/deals-scraper/internal/adapter/file"
	"github.com/user/deals-scraper/internal/adapter/xlsx"
	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/internal/usecase"
)

var runFlags struct {
	url           *string
	chrome        *string
	zip           *string
	rankBy        *string
	marginOfError *int
	list          *string
	blacklist     *string
	out           *string
}

func init() {
	f := runCmd.Flags()
	runFlags.url = f.String("url", "", "Search page base URL.")
	runFlags.chrome = f.String("chrome", "", "Chrome executable.")
	runFlags.zip = f.String("zip", "", "ZIP code used for the regional location.")
	runFlags.rankBy = f.String("rank-by", "", `Lowest-price grouping: "Item" or "Name".`)
	runFlags.marginOfError = f.Int("margin-of-error", 0, "Incomplete listings tolerated per page before it is reloaded.")
	runFlags.list = f.String("list", "", "Shopping list file. Defaults to shopping_list.txt in LISTS_DIR.")
	runFlags.blacklist = f.String("blacklist", "", "Blacklist file. Defaults to item_blacklist.txt in LISTS_DIR.")
	runFlags.out = f.String("out", "", "Output directory for the report.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--zip <zip>] [--list <file>]",
	Short: "Scrapes every item of the shopping list and writes <date>.xlsx.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		flags := cmd.Flags()
		req := &entity.RunRequest{
			SearchURL:     cfg.SearchURL,
			ChromePath:    cfg.ChromePath,
			Zip:           cfg.Zip,
			RankBy:        entity.RankBy(cfg.RankBy),
			MarginOfError: cfg.MarginOfError,
		}
		if flags.Changed("url") {
			req.SearchURL = *runFlags.url
		}
		if flags.Changed("chrome") {
			req.ChromePath = *runFlags.chrome
		}
		if flags.Changed("zip") {
			req.Zip = *runFlags.zip
		}
		if flags.Changed("rank-by") {
			req.RankBy = entity.RankBy(*runFlags.rankBy)
		}
		if flags.Changed("margin-of-error") {
			req.MarginOfError = *runFlags.marginOfError
		}
		if !req.RankBy.Valid() {
			return fmt.Errorf("rank-by must be %q or %q, got %q", entity.RankByItem, entity.RankByName, req.RankBy)
		}
		outDir := cfg.OutputDir
		if flags.Changed("out") {
			outDir = *runFlags.out
		}

		lists := file.NewListRepo(cfg.ListsDir)
		if req.ShoppingListText, err = readListText(cmd, lists, entity.ShoppingList, *runFlags.list); err != nil {
			return err
		}
		if req.BlacklistText, err = readListText(cmd, lists, entity.ItemBlacklist, *runFlags.blacklist); err != nil {
			return err
		}

		launcher := chromedp_browser.NewLauncher(cfg.Headless, cfg.UserDataDir, log)
		store := persistedLists(lists, *runFlags.list, *runFlags.blacklist)
		runner := usecase.NewRunner(launcher, xlsx.NewReportWriter(outDir), store, nil, usecase.RunnerConfig{
			MaxPageRetries:   cfg.MaxPageRetries,
			RetryBackoff:     cfg.RetryBackoff(),
			PageRateLimit:    cfg.PageRateLimit,
			HeadlineTimeout:  cfg.HeadlineTimeout(),
			ListingsTimeout:  cfg.ListingsTimeout(),
			LocationLoadWait: cfg.LocationLoadWait(),
			LocationSettle:   cfg.LocationSettle(),
		}, log)

		updates := make(chan entity.Progress, 16)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			printProgress(cmd.ErrOrStderr(), updates)
		}()

		res := runner.Run(cmd.Context(), req, usecase.ChannelReporter(updates))
		close(updates)
		wg.Wait()

		log.Debug("run result", zap.String("status", res.Status), zap.String("path", res.ReportPath))
		if res.Level == entity.LevelDanger {
			return fmt.Errorf("%s", res.Status)
		}
		if res.Report != nil {
			renderSummary(cmd.OutOrStdout(), res.Report)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Status)
		if res.ReportPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", res.ReportPath)
		}
		return nil
	},
}

// persistedLists returns the store the runner saves list texts to. Lists read
// from explicit files are not written back over the stored ones.
func persistedLists(lists *file.ListRepoImpl, listPath, blacklistPath string) repository.ListRepository {
	if listPath != "" || blacklistPath != "" {
		return nil
	}
	return lists
}

// readListText reads path when given, otherwise the stored list.
func readListText(cmd *cobra.Command, lists *file.ListRepoImpl, name, path string) (string, error) {
	if path == "" {
		return lists.Load(cmd.Context(), name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
