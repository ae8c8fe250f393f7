package commands

import (
	"fmt"
	"text/tabwriter"

	"promptstudio-workers/internal/common/selection"

	"github.com/spf13/cobra"
)

func newRecipesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"r"},
		Short:   "List recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			showValue, _ := cmd.Flags().GetBool("value")

			c, err := o.client()
			if err != nil {
				return err
			}
			deployments, err := c.ListDeployments(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := selection.Aggregate(deployments)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			if showValue {
				fmt.Fprintln(w, "RECIPE ID\tNAME\tDEPLOYMENTS\tVALUE")
			} else {
				fmt.Fprintln(w, "RECIPE ID\tNAME\tDEPLOYMENTS")
			}
			for _, r := range selection.FilterOptions(recipes, filter) {
				n := selection.Decode(r.Value).Len()
				if showValue {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.RecipeID, r.Name, n, r.Value)
				} else {
					fmt.Fprintf(w, "%s\t%s\t%d\n", r.RecipeID, r.Name, n)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringP("filter", "f", "", "case-insensitive substring of the recipe name")
	cmd.Flags().Bool("value", false, "print the encoded recipe value")
	return cmd
}

func newDeploymentsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"d"},
		Short:   "List the deployments of a recipe, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, _ := cmd.Flags().GetString("recipe")

			c, err := o.client()
			if err != nil {
				return err
			}
			value, err := recipeValue(cmd.Context(), c, recipe)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DEPLOYMENT ID\tLABEL")
			for _, opt := range selection.ResolveDeployments(value, nil) {
				fmt.Fprintf(w, "%s\t%s\n", opt.Value, opt.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("recipe", "", "recipe id or encoded recipe value")
	cmd.MarkFlagRequired("recipe")
	return cmd
}

func newFieldsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the input fields of a deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, _ := cmd.Flags().GetString("recipe")
			deploymentID, _ := cmd.Flags().GetString("deployment")

			c, err := o.client()
			if err != nil {
				return err
			}
			value, err := recipeValue(cmd.Context(), c, recipe)
			if err != nil {
				return err
			}
			fields, err := selection.DeriveFields(value, deploymentID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED")
			for _, f := range fields {
				fmt.Fprintf(w, "%s\t%s\t%t\n", f.ID, f.Type, f.Required)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("recipe", "", "recipe id or encoded recipe value")
	cmd.Flags().String("deployment", "", "deployment id")
	cmd.MarkFlagRequired("recipe")
	cmd.MarkFlagRequired("deployment")
	return cmd
}
