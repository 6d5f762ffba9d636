// README: Root command, config file and FREIGHT_* env binding for freightctl.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freight/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "freightctl",
	Short: "Operate the freight quote service",
	Long: `freightctl quotes a shipment against the configured reference data and price model,
and loads the reference tables from CSV exports into Postgres.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.freightctl.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "Directory with the reference CSV exports")
	rootCmd.PersistentFlags().String("dsn", "", "Postgres DSN")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Overall command timeout")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(quoteCmd, seedCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".freightctl")
	}

	// --data-dir also reads FREIGHT_DATA_DIR, and so on.
	viper.SetEnvPrefix("FREIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("dsn", "FREIGHT_DB_DSN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// serviceConfig starts from the service environment and lets CLI flags win.
func serviceConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dir := viper.GetString("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if dsn := viper.GetString("dsn"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
