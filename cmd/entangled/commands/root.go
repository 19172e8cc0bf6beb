package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "entangled",
	Short: "Tangle and stitch literate Markdown projects",
	Long: `Entangled keeps a project's Markdown documentation and its generated
source files in sync: tangle expands code blocks into real files, stitch
folds edits made to those files back into the Markdown they came from.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./entangled.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI-colored report output")
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("entangled")
	}

	viper.SetEnvPrefix("ENTANGLED")
	viper.AutomaticEnv()

	// A missing config file is the common case, a fresh project with only
	// built-in defaults; any other read error surfaces at command run time
	// when the file is actually needed.
	viper.ReadInConfig()
}
