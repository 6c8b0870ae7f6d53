package cli

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/restclient"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "restc",
	Short:   "A small terminal REST client",
	Version: restclient.Version,
	Long: `Restc is a small terminal REST client. It issues one synchronous
request at a time, can stream response bodies to a file, upload multipart
forms, report transfer progress, and apply named profiles with default
headers and credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage: true,
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Path to the profile file (default ~/.restc.yaml if present)")
	RootCmd.PersistentFlags().String("profile", "", "Named profile to apply")
	RootCmd.PersistentFlags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	RootCmd.PersistentFlags().StringP("user", "u", "", "Basic auth credentials as user:password")
	RootCmd.PersistentFlags().String("cookie", "", "Raw Cookie header value")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(benchCmd)
}

// defaultConfigPath returns ~/.restc.yaml if it exists, else ""
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".restc.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// colorDisabled respects --no-color and non-terminal stdout
func colorDisabled(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd())
}
