package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/config"
)

// initCommand creates the init command that writes a default brickwall.toml.
func (c *CLI) initCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			printSuccess("Created %s", config.FileName)
			printFile(path)
			printNewline()
			printNextStep("Pack some items", "brickwall layout items.json")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory to write to (default: current directory)")
	return cmd
}
