// internal/cli/show_config.go
package dokimi

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/dokimi/internal/appconfig"
)

var showConfigFull bool

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:      viper.GetBool("debug"),
			LogFile:    viper.GetString("logFile"),
			ResultsDir: viper.GetString("resultsDir"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)

		if showConfigFull {
			pp.Println(GetConfig())
		}
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigFull, "full", false, "dump the raw merged configuration struct")
	showCmd.AddCommand(showConfigCmd)
}
