package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itinera",
	Short: "Itinera is a conversational travel-itinerary builder",
	Long:  `Itinera plans multi-zone trips through a guided conversation: pick your zones, fill the days with experiences, choose your hotels, get the bill.`,
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
	rootCmd.PersistentFlags().String("catalog", "", "Directory with YAML catalog files (zones, experiences, packages, hotels)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for session persistence (host:port)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
}
