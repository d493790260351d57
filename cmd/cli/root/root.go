package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Notes API CLI",
	Long:  "Command line interface for interacting with the Notes API",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command so subpackages can attach their commands.
func GetRoot() *cobra.Command {
	return rootCmd
}
