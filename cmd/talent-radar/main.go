// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the talent-radar CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/talent-radar/internal/logging"
	"github.com/pdiddy/talent-radar/internal/secrets"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appCfg is the merged configuration, ready after PersistentPreRunE.
	appCfg types.AppConfig
	logger = zap.NewNop()
)

// rootCmd is the base command for the talent-radar CLI.
var rootCmd = &cobra.Command{
	Use:   "talent-radar",
	Short: "Find job candidates in a Telegram channel and on job boards",
	Long: `talent-radar collects candidate resumes from two sources: a public Telegram
channel, whose recent posts are parsed into structured records and cached, and
a set of job boards searched through a web search engine.

Use ingest to search the channel, web to search the job boards, watch to keep
a local SQLite history fresh, and history to read it back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		l, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger = l

		secretsDir, _ := cmd.Flags().GetString("secrets")
		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		secrets.Apply(s, &cfg)
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}

		appCfg = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./talent-radar.yaml or ~/.config/talent-radar/talent-radar.yaml)")
	rootCmd.PersistentFlags().String("secrets", secrets.DefaultDir, "directory of secret key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// .env values become environment variables before viper reads them.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("talent-radar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "talent-radar"))
		}
	}

	viper.SetEnvPrefix("TALENT_RADAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
