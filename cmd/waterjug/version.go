package main

import (
	"fmt"

	"github.com/aretw0/waterjug"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of waterjug",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "waterjug version %s\n", waterjug.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
