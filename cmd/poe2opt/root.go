package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	poe2opt "github.com/User-dev-volt/poe2-optimizer-v6-sub001"
	redisadapter "github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/adapters/redis"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/logging"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/adapters/memory"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/adapters/oracle"
	backend "github.com/redis/go-redis/v9"
)

var rootCmd = &cobra.Command{
	Use:   "poe2opt",
	Short: "poe2opt is a passive-tree build optimizer",
	Long:  `poe2opt searches the passive skill tree for the best legal allocation of a build's remaining points, scoring candidates against an external stat-calculation service.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "poe2opt.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("tree", "", "Path to the passive tree data file")
	rootCmd.PersistentFlags().String("oracle-url", "", "URL of the stat-calculation service")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadSetup resolves the effective configuration: file values first, flags
// override.
func loadSetup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, nil, err
	}
	if tree, _ := cmd.Flags().GetString("tree"); tree != "" {
		cfg.Tree = tree
	}
	if url, _ := cmd.Flags().GetString("oracle-url"); url != "" {
		cfg.Oracle.URL = url
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return cfg, logging.New(level), nil
}

// newOptimizer builds the facade from the effective configuration.
func newOptimizer(cfg Config, logger *slog.Logger, extra ...poe2opt.Option) (*poe2opt.Optimizer, error) {
	if cfg.Tree == "" {
		return nil, fmt.Errorf("a tree data file is required (--tree or config)")
	}
	if cfg.Oracle.URL == "" {
		return nil, fmt.Errorf("an oracle URL is required (--oracle-url or config)")
	}

	var oracleOpts []oracle.HTTPOption
	if cfg.Oracle.Timeout > 0 {
		oracleOpts = append(oracleOpts, oracle.WithTimeout(cfg.Oracle.Timeout))
	}
	orc := oracle.NewHTTPClient(cfg.Oracle.URL, oracleOpts...)

	opts := append([]poe2opt.Option{poe2opt.WithLogger(logger)}, searchOptions(cfg)...)
	opts = append(opts, storeOptions(cfg)...)
	opts = append(opts, extra...)

	return poe2opt.New(cfg.Tree, orc, opts...)
}

func searchOptions(cfg Config) []poe2opt.Option {
	var opts []poe2opt.Option
	if cfg.Search.Patience > 0 {
		opts = append(opts, poe2opt.WithPatience(cfg.Search.Patience))
	}
	if cfg.Search.MaxIterations > 0 {
		opts = append(opts, poe2opt.WithMaxIterations(cfg.Search.MaxIterations))
	}
	if cfg.Search.MinRelativeDelta > 0 {
		opts = append(opts, poe2opt.WithMinRelativeDelta(cfg.Search.MinRelativeDelta))
	}
	return opts
}

// storeOptions picks run persistence: Redis when configured, otherwise an
// in-process store. With Redis, a distributed run lock keeps replicas from
// driving the same run.
func storeOptions(cfg Config) []poe2opt.Option {
	if cfg.Redis.Addr == "" {
		return []poe2opt.Option{poe2opt.WithStore(memory.NewRunStore())}
	}

	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var storeOpts []redisadapter.Option
	if cfg.Redis.TTL > 0 {
		storeOpts = append(storeOpts, redisadapter.WithTTL(cfg.Redis.TTL))
	}
	return []poe2opt.Option{
		poe2opt.WithStore(redisadapter.NewFromClient(client, storeOpts...)),
		poe2opt.WithLocker(redisadapter.NewLocker(client, "poe2opt:")),
	}
}
