package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajna-inc/revreg/pkg/anoncreds"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/logger"
)

const (
	logLevelFlagName  = "log-level"
	logLevelFlagUsage = "Log level: off, error, warn, info or debug"
	stdinPath         = "-"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "revreg",
		Short:         "Inspect revocation registry documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString(logLevelFlagName)
			logger.SetDefaultLogger(logger.New(logger.Options{
				Level:  logger.ParseLogLevel(level),
				Format: "text",
				Output: cmd.ErrOrStderr(),
			}))
		},
	}
	rootCmd.PersistentFlags().String(logLevelFlagName, "warn", logLevelFlagUsage)

	rootCmd.AddCommand(
		validateConfigCmd(),
		validateDefinitionCmd(),
		unqualifyCmd(),
		decodeRegistryCmd(),
		decodeDeltaCmd(),
		checkModuleConfigCmd(),
	)
	return rootCmd
}

func validateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config <file|->",
		Short: "Validate a revocation registry config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			cfg, err := revocation.DecodeRevocationRegistryConfig(data)
			if err != nil {
				return err
			}
			logger.GetDefaultLogger().Debugf("config %s is valid", args[0])
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func validateDefinitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-def <file|->",
		Short: "Decode and validate a revocation registry definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readDefinition(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), def.ID())
			return err
		},
	}
}

func unqualifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unqualify <file|->",
		Short: "Print the unqualified form of a revocation registry definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readDefinition(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), def.ToUnqualified())
		},
	}
}

func decodeRegistryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-registry <file|->",
		Short: "Decode a versioned revocation registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			reg, err := revocation.DecodeRevocationRegistry(data)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reg)
		},
	}
}

func decodeDeltaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-delta <file|->",
		Short: "Decode a versioned revocation registry delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			delta, err := revocation.DecodeRevocationRegistryDelta(data)
			if err != nil {
				return err
			}
			if err := delta.Validate(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), delta)
		},
	}
}

func checkModuleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-module-config <file>",
		Short: "Load a module config file and print it with defaults applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := anoncreds.LoadModuleConfig(args[0])
			if err != nil {
				return err
			}
			if cfg.Storage.Postgres != nil {
				cfg.Storage.Postgres.Password = "***"
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func readDefinition(cmd *cobra.Command, path string) (revocation.RevocationRegistryDefinition, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return revocation.RevocationRegistryDefinition{}, err
	}
	def, err := revocation.DecodeRevocationRegistryDefinition(data)
	if err != nil {
		return revocation.RevocationRegistryDefinition{}, err
	}
	if err := def.Validate(); err != nil {
		return revocation.RevocationRegistryDefinition{}, err
	}
	return def, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
