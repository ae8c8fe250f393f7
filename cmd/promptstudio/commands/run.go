package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"promptstudio-workers/internal/models"

	"github.com/spf13/cobra"
)

func newRunCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a deployment and print its response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deploymentID, _ := cmd.Flags().GetString("deployment")
			pairs, _ := cmd.Flags().GetStringArray("input")
			raw, _ := cmd.Flags().GetString("json")

			inputs, err := parseInputs(pairs, raw)
			if err != nil {
				return err
			}

			c, err := o.client()
			if err != nil {
				return err
			}
			response, err := c.RunDeployment(cmd.Context(), models.RunRequest{
				DeploymentID: deploymentID,
				Input:        inputs,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.RunResult(response))
		},
	}
	cmd.Flags().String("deployment", "", "deployment id")
	cmd.Flags().StringArrayP("input", "i", nil, "input field as key=value (repeatable)")
	cmd.Flags().String("json", "", "inputs as a JSON object; --input values are applied on top")
	cmd.MarkFlagRequired("deployment")
	return cmd
}

// parseInputs merges a JSON object with key=value pairs. Pair values are
// always strings.
func parseInputs(pairs []string, raw string) (map[string]interface{}, error) {
	inputs := map[string]interface{}{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
			return nil, fmt.Errorf("--json must be a JSON object: %w", err)
		}
	}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", p)
		}
		inputs[key] = value
	}
	return inputs, nil
}
