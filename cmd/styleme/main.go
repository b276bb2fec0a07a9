package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"styleme/internal/infra"
)

var logger = infra.NewLogger("cli")

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "styleme",
	Short: "Preview salon hairstyles on a photo",
	Long: `StyleMe renders a batch of hairstyle previews for a photo, lets you pick
one and writes the selection record the booking flow consumes.

Examples:
  styleme catalog male --locale ar
  styleme generate --image face.jpg --category female --count 6 --out ./previews
  styleme generate --camera-frame frame.png --category male --select 2 --notes "keep it short"
  styleme filter --spec "brightness(1.1) sepia(0.3)" face.jpg out.png`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(catalogCmd, generateCmd, filterCmd, credentialsCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "styleme:", err)
		os.Exit(1)
	}
}
