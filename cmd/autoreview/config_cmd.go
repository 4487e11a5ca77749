package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/richhaase/let-claude-code/internal/config"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

func newConfigCmd() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage autoreview configuration",
		Long:  "View, initialize, and validate " + config.FileName + " and the environment variables it merges with.",
	}
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", ".", "Project directory holding "+config.FileName)

	cmd.AddCommand(newConfigShowCmd(&projectDir))
	cmd.AddCommand(newConfigInitCmd(&projectDir))
	cmd.AddCommand(newConfigValidateCmd(&projectDir))

	return cmd
}

func newConfigShowCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display resolved configuration",
		Long:  "Show the fully resolved configuration from defaults, config file, and environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := config.LoadFromDir(*projectDir)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			env, err := config.LoadEnv(cmd.Context())
			if err != nil {
				return err
			}

			resolved := config.Resolve(result.Config, env, config.FlagState{}, config.Defaults)
			text, err := config.Show(resolved)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Found {
				fmt.Fprintf(out, "# Resolved configuration (file: %s)\n", result.Path)
			} else {
				fmt.Fprintln(out, "# Resolved configuration (no config file)")
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
}

func newConfigInitCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter " + config.FileName + " file",
		Long:  "Create a commented " + config.FileName + " configuration file in the project directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := filepath.Abs(*projectDir)
			if err != nil {
				return fmt.Errorf("invalid project directory: %w", err)
			}
			path, err := config.Init(dir)
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%s already exists; remove it first or edit it directly", path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}

func newConfigValidateCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and environment variables",
		Long:  "Load and validate the config file and environment variables, reporting any warnings or errors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			terminal.ConfigureColors(terminal.IsStdoutTTY())
			logger := terminal.NewLoggerTo(cmd.OutOrStdout(), terminal.DefaultTag, terminal.IsStdoutTTY())

			var problems []string
			var warnings []string

			// Keep going after a file error so environment problems are reported too.
			var cfg *config.Config
			result, err := config.LoadFromDir(*projectDir)
			if err != nil {
				problems = append(problems, fmt.Sprintf("config file: %v", err))
			} else {
				cfg = result.Config
				warnings = append(warnings, result.Warnings...)
			}

			env, err := config.LoadEnv(cmd.Context())
			if err != nil {
				problems = append(problems, err.Error())
			} else if err := env.Validate(); err != nil {
				problems = append(problems, err.Error())
			}

			if err := config.Resolve(cfg, env, config.FlagState{}, config.Defaults).Validate(); err != nil {
				problems = append(problems, err.Error())
			}

			for _, w := range warnings {
				logger.Logf(terminal.StyleWarning, "Config: %s", w)
			}
			for _, p := range problems {
				logger.Logf(terminal.StyleError, "%s", p)
			}

			if len(problems) > 0 {
				return fmt.Errorf("configuration has %d error(s)", len(problems))
			}
			if len(warnings) > 0 {
				logger.Log("Configuration is valid (with warnings).", terminal.StyleSuccess)
			} else {
				logger.Log("Configuration is valid.", terminal.StyleSuccess)
			}
			return nil
		},
	}
}
