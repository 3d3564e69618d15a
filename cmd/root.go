package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gallerybackend",
	Short: "Image gallery backend with uploads, likes and ranked feeds",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("Info: No .env file found or error loading: %v", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command; without a subcommand it serves HTTP.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("FATAL: %v", err)
		os.Exit(1)
	}
}
