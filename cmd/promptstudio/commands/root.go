// Package commands implements the promptstudio CLI: the same selection
// pipeline the workers run, driven from a terminal.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptstudio-workers/internal/common/promptstudio"
	"promptstudio-workers/internal/common/selection"
	"promptstudio-workers/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Client is the Prompt Studio API surface the commands use.
type Client interface {
	ListDeployments(ctx context.Context) ([]models.Deployment, error)
	RunDeployment(ctx context.Context, req models.RunRequest) (interface{}, error)
	TestConnection(ctx context.Context) error
}

type options struct {
	v         *viper.Viper
	newClient func(baseURL, apiKey string, timeout time.Duration) Client
}

func (o *options) client() (Client, error) {
	apiKey := o.v.GetString("api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("no api key: set --api-key or PROMPTSTUDIO_API_KEY")
	}
	return o.newClient(o.v.GetString("base_url"), apiKey, o.v.GetDuration("timeout")), nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(func(baseURL, apiKey string, timeout time.Duration) Client {
		return promptstudio.NewClient(baseURL, apiKey, timeout)
	})
}

func newRootCmd(newClient func(baseURL, apiKey string, timeout time.Duration) Client) *cobra.Command {
	o := &options{v: viper.New(), newClient: newClient}

	root := &cobra.Command{
		Use:           "promptstudio",
		Short:         "Browse and run Prompt Studio deployments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			o.v.SetEnvPrefix("PROMPTSTUDIO")
			o.v.AutomaticEnv()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("base-url", promptstudio.DefaultBaseURL, "Prompt Studio API base URL")
	flags.String("api-key", "", "Prompt Studio API key")
	flags.Duration("timeout", 30*time.Second, "API request timeout (0 for none)")
	o.v.BindPFlag("base_url", flags.Lookup("base-url"))
	o.v.BindPFlag("api_key", flags.Lookup("api-key"))
	o.v.BindPFlag("timeout", flags.Lookup("timeout"))

	root.AddCommand(
		newRecipesCmd(o),
		newDeploymentsCmd(o),
		newFieldsCmd(o),
		newRunCmd(o),
		newAuthCmd(o),
	)
	return root
}

// recipeValue turns a --recipe argument into an encoded recipe group. An
// encoded group is used as-is; anything else is looked up as a recipe id.
func recipeValue(ctx context.Context, c Client, recipe string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(recipe), "{") {
		return recipe, nil
	}

	deployments, err := c.ListDeployments(ctx)
	if err != nil {
		return "", err
	}
	recipes, err := selection.Aggregate(deployments)
	if err != nil {
		return "", err
	}
	for _, r := range recipes {
		if r.RecipeID == recipe {
			return r.Value, nil
		}
	}
	return "", fmt.Errorf("recipe %q not found", recipe)
}
