package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/itinera/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive planning session",
	Long:  `Starts the itinerary wizard in the terminal. With --session, progress persists and the conversation resumes where it left off.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogDir, _ := cmd.Flags().GetString("catalog")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		debug, _ := cmd.Flags().GetBool("debug")
		headless, _ := cmd.Flags().GetBool("headless")
		noTyping, _ := cmd.Flags().GetBool("no-typing")

		err := cli.RunSession(cli.RunOptions{
			SessionID:  sessionID,
			Fresh:      fresh,
			Debug:      debug,
			Headless:   headless,
			NoTyping:   noTyping,
			CatalogDir: catalogDir,
			RedisAddr:  redisAddr,
			RedisDB:    redisDB,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume or create")
	runCmd.Flags().Bool("fresh", false, "Discard any stored progress for the session before starting")
	runCmd.Flags().Bool("debug", false, "Verbose logging to stderr")
	runCmd.Flags().Bool("headless", false, "No prompt or banner, strict IO")
	runCmd.Flags().Bool("no-typing", false, "Deliver messages immediately, without the typing cadence")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
}
