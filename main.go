// Package main provides the entry point for the pfbgen CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfbtools/pfbgen/pkg/vector"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	rootCmd = &cobra.Command{
		Use:   "pfbgen",
		Short: "Generate, channelize and invert PFB test vectors",
		Long: paragraph(
			fmt.Sprintf("\nGenerate %s test vectors, drive them through the channelize and synthesize toolchain, and reuse cached results keyed by their generation parameters.", keyword("deterministic")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if viper.GetBool("debug") {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

// pipelineConfig resolves the vector configuration from flags, the
// environment and the config file. Components receive it explicitly;
// nothing below this package reads viper.
func pipelineConfig() (vector.Config, error) {
	backend, err := vector.ParseBackend(viper.GetString("backend"))
	if err != nil {
		return vector.Config{}, err
	}
	return vector.Config{
		BaseDir:        viper.GetString("base_dir"),
		BuildDir:       viper.GetString("build_dir"),
		HeaderTemplate: viper.GetString("header_template"),
		Backend:        backend,
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("base-dir", "", "root directory of the test vector cache")
	rootCmd.PersistentFlags().String("build-dir", "", "directory containing the stage executables")
	rootCmd.PersistentFlags().String("header-template", "", "JSON header template for dump files")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "stage backend: matlab or python")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("base_dir", rootCmd.PersistentFlags().Lookup("base-dir"))
	_ = viper.BindPFlag("build_dir", rootCmd.PersistentFlags().Lookup("build-dir"))
	_ = viper.BindPFlag("header_template", rootCmd.PersistentFlags().Lookup("header-template"))
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))

	viper.SetDefault("debug", false)
	viper.SetDefault("base_dir", filepath.Join("data", "test_vectors"))
	viper.SetDefault("build_dir", "build")
	viper.SetDefault("header_template", filepath.Join("config", "default_header.json"))
	viper.SetDefault("backend", "matlab")

	rootCmd.AddCommand(generateCmd, pipelineCmd, compareCmd, cacheCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "pfbgen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "pfbgen")}, dirs...)
	}

	if c := os.Getenv("PFBGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("pfbgen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("pfbgen")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "pfbgen.yml")
	}
}
