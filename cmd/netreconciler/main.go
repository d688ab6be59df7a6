package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"netreconciler/internal/config"
	"netreconciler/internal/orchestrator"
	"netreconciler/internal/reconcile"
	"netreconciler/pkg/logging"
)

func main() {
	var configPath string
	var sourceFlags []string
	var awsSourceFlags []string
	var awsRegion string

	logger := logging.NewDefaultLogger()

	// loadConfig merges the config file, the environment and the flags of cmd.
	loadConfig := func(cmd *cobra.Command) (*config.File, error) {
		// A missing .env is fine; values may come from the real environment.
		_ = godotenv.Load()

		file, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return nil, err
		}

		for _, value := range sourceFlags {
			entry, err := config.ParseSourceFlag(value)
			if err != nil {
				return nil, err
			}
			file.Sources = append(file.Sources, entry)
		}
		for _, value := range awsSourceFlags {
			entry, err := config.ParseAWSSourceFlag(value, awsRegion)
			if err != nil {
				return nil, err
			}
			file.Sources = append(file.Sources, entry)
		}

		logger.SetLevel(logging.StringToLogLevel(file.LogLevel))
		return file, nil
	}

	rootCmd := &cobra.Command{
		Use:   "netreconciler",
		Short: "Reconcile network records across sources against an authoritative baseline",
		Long: `Reconcile IP, CIDR and host-subnet records reported by several sources
against each other and against a truth source, reporting fields that
disagree or are missing.

Exit codes: 0 when every source agrees, 2 when inconsistencies are found,
1 on errors.`,
		Run: func(cmd *cobra.Command, args []string) {
			file, err := loadConfig(cmd)
			if err != nil {
				logger.Error("Failed to load configuration: %v", err)
				os.Exit(1)
			}

			cfg, err := file.OrchestratorConfig()
			if err != nil {
				logger.Error("%v", err)
				_ = cmd.Help()
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			service, err := orchestrator.NewDefaultService(ctx, cfg, logger)
			if err != nil {
				logger.Error("Failed to initialize the service: %v", err)
				os.Exit(1)
			}

			hasInconsistency, hasError, err := service.Run(ctx)
			if err != nil {
				logger.Error("Error: %v", err)
				os.Exit(1)
			}

			if hasInconsistency {
				os.Exit(2) // Non-zero exit code indicates inconsistencies were found
			}
			if hasError {
				os.Exit(1) // A source failed to load
			}
		},
	}

	inventoryCmd := &cobra.Command{
		Use:   "inventory [path]",
		Short: "Reconcile every entity of an inventory against its own baseline and sources",
		Long: `Read an inventory of servers or clusters, each carrying its own networks
baseline and a mapping of named sources, and report only the entities whose
sources disagree. The path may also come from the config file or
NETRECONCILER_INVENTORY.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			file, err := loadConfig(cmd)
			if err != nil {
				logger.Error("Failed to load configuration: %v", err)
				os.Exit(1)
			}
			if len(args) == 1 {
				file.Inventory = args[0]
			}

			cfg, err := file.InventoryConfig()
			if err != nil {
				logger.Error("%v", err)
				_ = cmd.Help()
				os.Exit(1)
			}

			service, err := orchestrator.NewDefaultInventoryService(cfg, logger)
			if err != nil {
				logger.Error("Failed to initialize the service: %v", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hasInconsistency, hasError, err := service.Run(ctx)
			if err != nil {
				logger.Error("Error: %v", err)
				os.Exit(1)
			}
			if hasInconsistency {
				os.Exit(2)
			}
			if hasError {
				os.Exit(1)
			}
		},
	}

	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the effective field policy as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			policy := reconcile.ResolvePolicy(file.PolicyOptions())

			data, err := yaml.Marshal(policy)
			if err != nil {
				return fmt.Errorf("error marshaling policy: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}

	// Define flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.String("truth", "", "Path to the truth source (JSON, YAML or HCL)")
	flags.StringArrayVar(&sourceFlags, "source", nil, "Source as name=path; repeatable (.tf/.hcl files are read as HCL)")
	flags.StringArrayVar(&awsSourceFlags, "aws-source", nil, "EC2 source as name or name=vpc-id; repeatable")
	flags.StringVar(&awsRegion, "aws-region", "", "AWS region for --aws-source (default: SDK resolution)")
	flags.StringSlice("types", nil, "Comma-separated record types to check (ip,cidr,hostsubnet; default: all)")
	flags.String("output", "table", "Output format: table or json")
	flags.Int("concurrency", runtime.NumCPU(), "Maximum number of sources fetched concurrently (default: number of CPU cores)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")

	inventoryCmd.Flags().String("inventory", "", "Path to the inventory file (JSON or YAML)")

	rootCmd.AddCommand(inventoryCmd, policyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
