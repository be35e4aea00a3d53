// marketbrief: market data aggregation service for a dashboard front end.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/marketbrief/api"
	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/datasource"
	"github.com/seenimoa/marketbrief/internal/logger"
	"github.com/seenimoa/marketbrief/internal/metrics"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set by the root command's pre-run hook.
var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketbrief",
	Short: "marketbrief — market snapshot aggregator",
	Long: `marketbrief fetches quotes, business headlines, the economic calendar
and optional page scrapes concurrently, and serves them as one JSON
payload for a dashboard. Individual upstream failures degrade to N/A
values and placeholder lines instead of failing the response.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logger.New(cfg.Logging)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Version needs no config.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketbrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}

		rec := metrics.New()
		agg := datasource.NewAggregatorFromConfig(cfg, log, rec)
		srv := api.NewServer(cfg, agg,
			api.WithLogger(log),
			api.WithMetrics(rec),
			api.WithVersion(version),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
}

// --- Fetch Command (one-shot) ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the market brief once and print it",
	Long: `Run the aggregation once, exactly as the HTTP endpoint would, and print
the payload to stdout as JSON or YAML.

Examples:
  marketbrief fetch
  marketbrief fetch --symbol-set us --freshness-hours 0
  marketbrief fetch --layout sections --debug
  marketbrief fetch --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetInt("freshness-hours")
		set, _ := cmd.Flags().GetString("symbol-set")
		layoutName, _ := cmd.Flags().GetString("layout")
		debug, _ := cmd.Flags().GetBool("debug")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		formatName, _ := cmd.Flags().GetString("format")

		if hours < 0 {
			hours = cfg.Brief.FreshnessHours
		}
		if set == "" {
			set = cfg.Brief.SymbolSet
		}
		layout, err := api.ParseLayout(layoutName)
		if err != nil {
			return err
		}
		format, err := api.ParseFormat(formatName)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		agg := datasource.NewAggregatorFromConfig(cfg, log, nil)
		brief := agg.Build(ctx, datasource.Options{
			FreshnessWindow: time.Duration(hours) * time.Hour,
			SymbolSet:       set,
		})

		payload, err := api.Assemble(brief, layout)
		if err != nil {
			return fmt.Errorf("%s: %w", api.FailureMessage, err)
		}
		if debug {
			payload.BriefID = brief.ID
			payload.Sources = brief.Sources
		}
		return api.Encode(cmd.OutOrStdout(), payload, format)
	},
}

func init() {
	fetchCmd.Flags().Int("freshness-hours", -1, "headline freshness window in hours (0 disables, default from config)")
	fetchCmd.Flags().String("symbol-set", "", "quote symbol set ("+strings.Join(datasource.SymbolSetNames(), ", ")+")")
	fetchCmd.Flags().String("layout", "flat", "marketData layout (flat, sections)")
	fetchCmd.Flags().Bool("debug", false, "include per-source outcomes")
	fetchCmd.Flags().String("format", "json", "output format (json, yaml)")
	fetchCmd.Flags().Duration("timeout", 30*time.Second, "overall deadline for the fetch")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := api.NewStatus(cfg, version)
		loc := utils.LoadDisplayLocation(cfg.Brief.Timezone)

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  marketbrief — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Display time:  %s\n", utils.FormatDateTime(time.Now(), loc))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Symbol set:     %s (available: %s)\n", st.SymbolSet, strings.Join(st.SymbolSets, ", "))
		fmt.Printf("    Freshness:      %dh\n", st.FreshnessHours)
		fmt.Printf("    Calendar:       %t (%s)\n", st.CalendarEnabled, st.Timezone)
		fmt.Printf("    Headline feed:  %s\n", cfg.Providers.RSSURL)
		if len(st.Sections) > 0 {
			fmt.Printf("    Extra sections: %s\n", strings.Join(st.Sections, ", "))
		}
		fmt.Printf("    API Server:     %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range st.Keys {
			status := "not set"
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
