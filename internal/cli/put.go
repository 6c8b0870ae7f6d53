package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/restclient"
)

var putCmd = &cobra.Command{
	Use:   "put URL",
	Short: "Make a PUT request to the specified URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, headers, err := buildClient(cmd)
		if err != nil {
			return err
		}

		data, _ := cmd.Flags().GetString("data")
		file, _ := cmd.Flags().GetString("file")
		contentType, _ := cmd.Flags().GetString("content-type")

		var body []byte
		switch {
		case data != "" && file != "":
			return fmt.Errorf("-d and --file are mutually exclusive")
		case file != "":
			body, err = os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading upload file: %w", err)
			}
		case data != "":
			body = []byte(data)
		default:
			return fmt.Errorf("a PUT needs a body from -d or --file")
		}

		req := restclient.NewRequest(args[0]).WithHeaders(headers)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Print(newFormatter(cmd).FormatRequest("PUT", req))
		}

		resp := client.Put(cmd.Context(), req, contentType, body)
		return printResponse(cmd, resp)
	},
}

func init() {
	putCmd.Flags().StringP("data", "d", "", "Request body")
	putCmd.Flags().String("file", "", "Read the request body from a file")
	putCmd.Flags().StringP("content-type", "t", "application/json", "Content type of the body")
}
