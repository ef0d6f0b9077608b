package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ZGSCRIPT"

func newRootCmd() *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:   "encountersim",
		Short: "Scripted raid encounter simulator",
		Long: `encountersim runs the High Priestess Jeklik encounter against a
simulated raid group, tracks encounter progress and prints a summary.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "YAML file with encounter tuning and simulator settings")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRunCmd(v))
	return root
}

// newViper returns a viper instance reading ZGSCRIPT_* environment
// variables, so --log-level may also come from ZGSCRIPT_LOG_LEVEL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}
