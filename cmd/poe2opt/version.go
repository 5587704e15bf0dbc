package main

import (
	"fmt"

	"github.com/spf13/cobra"

	poe2opt "github.com/User-dev-volt/poe2-optimizer-v6-sub001"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of poe2opt",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("poe2opt version %s\n", poe2opt.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
