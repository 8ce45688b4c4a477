package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/pkg/logger"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "checkout-service",
	Short: "Checkout Service",
	Long:  `Creates payment gateway orders for a storefront and verifies payment signatures.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads config.yml and .env from path, then the environment, and
// initialises the default logger from the result.
func loadConfig(path string) (*internal.Config, error) {
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Options{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "Directory holding config.yml and .env")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(signatureCmd)
	rootCmd.AddCommand(eventCmd)
}
