package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/lovedocu/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of lovedocu",
	// Version needs no config or logger
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lovedocu %s\n", common.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
