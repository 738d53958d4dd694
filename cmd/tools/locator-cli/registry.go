package main

import (
	"github.com/spf13/cobra"

	"business-locator/internal/common/config"
	"business-locator/pkg/registry"

	bs "business-locator/internal/workers/locator/business-search"
)

var registryOut string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Write the activity registry for process modellers",
	Long: `Writes the service tasks the worker manager serves, with their input
schema, error codes, timeout and retries, as JSON.`,
	Args: cobra.NoArgs,
	RunE: runRegistry,
}

func init() {
	registryCmd.Flags().StringVarP(&registryOut, "out", "o", "configs/activity-registry.json", "output path")
	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := registry.New(cfg.App.Version)
	wcfg := config.GetWorkerConfig(cfg, bs.TaskType)
	if err := reg.Add(bs.Activity(bs.LoadConfig(cfg), wcfg.MaxRetries)); err != nil {
		return err
	}
	if err := reg.Save(registryOut); err != nil {
		return err
	}
	cmd.Printf("Wrote %d activities to %s\n", len(reg.Activities), registryOut)
	return nil
}
