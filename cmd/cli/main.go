package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	userID string
	clubID string
)

var rootCmd = &cobra.Command{
	Use:   "clubhouse-cli",
	Short: "A CLI to interact with the clubhouse server",
	Long: `A command-line interface for making requests to the various endpoints
of the clubhouse application. Requests are sent on behalf of --user in --club.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("CLUBHOUSE_USER"), "Member ID to act as")
	rootCmd.PersistentFlags().StringVar(&clubID, "club", os.Getenv("CLUBHOUSE_CLUB"), "Club ID to act in")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
