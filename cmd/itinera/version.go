package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyago/itinera"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of itinera",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("itinera version %s\n", strings.TrimSpace(itinera.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
