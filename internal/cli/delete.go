package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/restclient"
)

var deleteCmd = &cobra.Command{
	Use:   "delete URL",
	Short: "Make a DELETE request to the specified URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, headers, err := buildClient(cmd)
		if err != nil {
			return err
		}

		req := restclient.NewRequest(args[0]).WithHeaders(headers)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Print(newFormatter(cmd).FormatRequest("DELETE", req))
		}

		resp := client.Delete(cmd.Context(), req)
		return printResponse(cmd, resp)
	},
}
