package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(o *options) *cobra.Command {
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Credential commands",
	}
	auth.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the API key is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			if err := c.TestConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials OK")
			return nil
		},
	})
	return auth
}
