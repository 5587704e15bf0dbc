package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/treedata"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate and summarize a passive tree data file",
	Long:  `Loads the tree data file, runs the structural validation (dangling edges, class starts) and prints a summary. Useful after updating the tree export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		if cfg.Tree == "" {
			return fmt.Errorf("a tree data file is required (--tree or config)")
		}
		jsonOut, _ := cmd.Flags().GetBool("json")

		tree, err := treedata.NewFileLoader(cfg.Tree, logger).Load(context.Background())
		if err != nil {
			return err
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"nodes":   tree.NodeCount(),
				"edges":   tree.EdgeCount(),
				"classes": tree.Classes(),
			})
		}

		fmt.Printf("Tree: %s\n", cfg.Tree)
		fmt.Printf("  Nodes:   %d\n", tree.NodeCount())
		fmt.Printf("  Edges:   %d\n", tree.EdgeCount())
		fmt.Printf("  Classes: %d\n", len(tree.Classes()))
		for _, class := range tree.Classes() {
			start, _ := tree.ClassStart(class)
			fmt.Printf("    %-12s start node %d\n", class, start)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print the summary as JSON")
}
