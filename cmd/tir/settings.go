package main

import (
	"github.com/spf13/cobra"
)

// Flags given on the command line win over tir.toml; untouched flags fall
// back to the config value.

func stringSetting(cmd *cobra.Command, name, fallback string) (string, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	return cmd.Flags().GetString(name)
}

func intSetting(cmd *cobra.Command, name string, fallback int) (int, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	return cmd.Flags().GetInt(name)
}

func boolSetting(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	return cmd.Flags().GetBool(name)
}

func stringsSetting(cmd *cobra.Command, name string, fallback []string) ([]string, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	return cmd.Flags().GetStringArray(name)
}
