package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	redisadapter "github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/adapters/redis"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// runsCmd groups run-inspection subcommands. They talk to the store
// directly: no oracle or tree is needed to look at finished runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored optimization runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored run IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStoreFromConfig(cmd)
		if err != nil {
			return err
		}
		ids, err := store.List(context.Background())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored run result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStoreFromConfig(cmd)
		if err != nil {
			return err
		}
		result, err := store.Load(context.Background(), args[0])
		if err != nil {
			return err
		}
		jsonOut, _ := cmd.Flags().GetBool("json")
		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		return printReport(os.Stdout, result)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStoreFromConfig(cmd)
		if err != nil {
			return err
		}
		return store.Delete(context.Background(), args[0])
	},
}

func runStoreFromConfig(cmd *cobra.Command) (ports.RunStore, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("run inspection requires a redis store (set redis.addr in the config); the in-process store does not outlive the optimize command")
	}
	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return redisadapter.NewFromClient(client), nil
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsShowCmd.Flags().Bool("json", false, "Print the raw result as JSON")
}
