// Package cmd provides the command-line interface of the butterfly
// interconnect.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/butterfly/config"
)

const (
	envConfig      = "BFLY_CONFIG"
	envDB          = "BFLY_DB"
	envMonitorPort = "BFLY_MONITOR_PORT"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bfly",
	Short: "bfly builds and exercises butterfly memory-access interconnects.",
	Long: `bfly builds a butterfly interconnect from a configuration file, ` +
		`drives random memory traffic through it, and reports the ` +
		`throughput observed at the crossbar switches.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config",
		os.Getenv(envConfig),
		"The JSON or YAML configuration file. The default configuration "+
			"is used if not given. Defaults to $"+envConfig+".")
}

// loadConfig reads and validates the configuration. Invalid configurations
// terminate the program after listing every violation.
func loadConfig() config.Config {
	cfg := config.Default()

	if configPath != "" {
		var err error

		cfg, err = config.Load(configPath)
		if err != nil {
			atexit.Fatalf("Error loading configuration %s: %v", configPath, err)
		}
	}

	err := cfg.Validate()
	if err != nil {
		atexit.Fatalf("Error in configuration: %v", err)
	}

	return cfg
}

func envInt(name string, defaultValue int) int {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring $%s=%q: %v\n", name, value, err)
		return defaultValue
	}

	return n
}
