// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"promptstudio-workers/pkg/registry"

	"github.com/spf13/cobra"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry of the Prompt Studio workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("path", defaultRegistryPath, "Path to registry file")
	root.AddCommand(newGenerateCmd(), newValidateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the registry from the worker schemas",
		Long: `Builds the registry from the input and output schemas the workers validate
against. With --check nothing is written and the command fails when the file
on disk is out of date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			check, _ := cmd.Flags().GetBool("check")

			generated, err := registry.Generate(time.Now())
			if err != nil {
				return fmt.Errorf("failed to generate registry: %w", err)
			}

			if check {
				current, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				if changed := registry.Diff(current, generated); len(changed) > 0 {
					return fmt.Errorf("registry %s is out of date: %s", path, strings.Join(changed, ", "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry %s is up to date.\n", path)
				return nil
			}

			if err := registry.SaveRegistry(generated, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(generated.Activities), path)
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "fail if the registry file differs from the generated one")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")

			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := registry.Validate(reg); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}
