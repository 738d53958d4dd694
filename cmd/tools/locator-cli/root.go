package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"business-locator/internal/common/config"
	"business-locator/internal/common/logger"
	"business-locator/internal/export"
	"business-locator/internal/locator"
	"business-locator/internal/maps"
	"business-locator/internal/models"
)

var (
	configPath   string
	searchName   string
	location     string
	searchMode   string
	radiusMiles  float64
	maxDriveTime float64
	extraTerms   string
	outputDir    string
	logLevel     string
)

// Swapped by tests.
var (
	loadConfig = func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFromFile(configPath)
		}
		return config.Load()
	}
	newProvider = func(cfg *config.Config, log logger.Logger) (locator.Provider, error) {
		return maps.NewClient(&maps.Config{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Timeout: cfg.ProviderTimeout(),
		}, log)
	}
	sleep = time.Sleep
)

var rootCmd = &cobra.Command{
	Use:   "locator-cli",
	Short: "Find businesses near an address and export them to a spreadsheet",
	Long: `Searches the maps provider for every term near a location, keeps the
businesses inside the radius or drive-time limit, and writes the merged
results to <name>_search_results.xlsx.

Terms come from the configured defaults plus --terms.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	rootCmd.Flags().StringVarP(&searchName, "name", "n", "", "name of this search, used for the output file (default: the location)")
	rootCmd.Flags().StringVarP(&location, "location", "l", "", "address to search around")
	rootCmd.Flags().StringVarP(&searchMode, "mode", "m", "b", "filter by radius, drive time or both (r/d/b)")
	rootCmd.Flags().Float64VarP(&radiusMiles, "radius", "r", 0, "search radius in miles")
	rootCmd.Flags().Float64VarP(&maxDriveTime, "max-drive-time", "d", 0, "maximum drive time in minutes")
	rootCmd.Flags().StringVarP(&extraTerms, "terms", "t", "", "comma-separated search terms added to the defaults")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the workbook (default: export.output_dir)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	_ = rootCmd.MarkFlagRequired("location")
}

func runSearch(cmd *cobra.Command, _ []string) error {
	mode, err := models.ParseSearchMode(searchMode)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	zapLog := logger.New(logLevel, "console", "stderr")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	params := mode.Params(location, flagValue(cmd, "radius", radiusMiles), flagValue(cmd, "max-drive-time", maxDriveTime))
	terms := locator.MergeTerms(cfg.Search.DefaultTerms, locator.ParseTerms(extraTerms))
	if len(terms) == 0 {
		return fmt.Errorf("no search terms: pass --terms or configure search.default_terms")
	}
	cmd.Printf("Search terms: %s\n", strings.Join(terms, ", "))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	provider, err := newProvider(cfg, log)
	if err != nil {
		return err
	}
	runner := locator.NewBatchRunner(locator.NewOrchestrator(provider, log), cfg.PacingDelay(), log)
	runner.Sleep = sleep
	runner.Progress = func(res locator.TermResult) {
		printTermResult(cmd, res)
	}
	records, report := runner.RunAll(ctx, terms, params)
	merged := locator.Aggregate(records)

	dir := outputDir
	if dir == "" {
		dir = cfg.Export.OutputDir
	}
	name := searchName
	if strings.TrimSpace(name) == "" {
		name = location
	}
	path, err := export.SaveFile(dir, name, merged)
	if err != nil {
		return err
	}

	if len(report.Failed) > 0 {
		cmd.Printf("\nFailed terms: %s\n", strings.Join(report.Failed, ", "))
	}
	if len(report.NotFound) > 0 {
		cmd.Printf("Address not found for: %s\n", strings.Join(report.NotFound, ", "))
	}
	cmd.Printf("\nSearch completed and %d results saved to '%s'\n", len(merged), path)
	return nil
}

// flagValue returns nil for a flag the user did not set.
func flagValue(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func printTermResult(cmd *cobra.Command, res locator.TermResult) {
	cmd.Printf("\nSearching for '%s' near %s...\n", res.Term, location)
	switch res.Outcome {
	case locator.OutcomeFailed:
		cmd.Printf("Search failed: %v\n", res.Err)
		return
	case locator.OutcomeNotFound:
		cmd.Printf("Could not find coordinates for %s.\n", location)
		return
	}
	for i, r := range res.Records {
		cmd.Println(formatRecord(i+1, r))
	}
}

func formatRecord(idx int, r models.EnrichedRecord) string {
	return fmt.Sprintf("%d. Name: %s, Address: %s, Phone: %s, Website: %s, URL: %s, "+
		"Drive Time: %.2f minutes, Distance: %.2f miles, Search Term: %s",
		idx, r.Name, r.Address, r.Phone, r.Website, r.MapsURL,
		r.DriveTimeMinutes, r.DistanceMiles, r.SearchTerm)
}
