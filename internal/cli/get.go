package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/pkg/jsonpath"
	"github.com/restclient-go/restclient/restclient"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Make a GET request to the specified URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, headers, err := buildClient(cmd)
		if err != nil {
			return err
		}

		req := restclient.NewRequest(args[0]).WithHeaders(headers)

		var execOpts []restclient.ExecOption

		outPath, _ := cmd.Flags().GetString("output")
		if outPath != "" {
			sink, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer sink.Close()
			execOpts = append(execOpts, restclient.WithSink(sink))
		}

		if progress, _ := cmd.Flags().GetBool("progress"); progress {
			execOpts = append(execOpts, restclient.WithProgress(progressPrinter()))
		}

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Print(newFormatter(cmd).FormatRequest("GET", req))
		}

		resp := client.Get(cmd.Context(), req, execOpts...)

		extract, _ := cmd.Flags().GetString("extract")
		if extract != "" && !resp.IsTransportFailure() {
			value, err := jsonpath.Extract(resp.BodyString(), extract)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		}

		return printResponse(cmd, resp)
	},
}

// progressPrinter reports transfer progress on stderr, overwriting one line
func progressPrinter() restclient.ProgressFunc {
	return func(downloadTotal, downloaded, uploadTotal, uploaded int64) int {
		switch {
		case downloadTotal > 0:
			fmt.Fprintf(os.Stderr, "\rdownloaded %d/%d bytes", downloaded, downloadTotal)
		case downloaded > 0:
			fmt.Fprintf(os.Stderr, "\rdownloaded %d bytes", downloaded)
		case uploaded > 0:
			fmt.Fprintf(os.Stderr, "\ruploaded %d/%d bytes", uploaded, uploadTotal)
		}
		return 0
	}
}

func init() {
	getCmd.Flags().StringP("output", "o", "", "Write the response body to a file instead of stdout")
	getCmd.Flags().String("extract", "", "Print only the value at this gjson path")
	getCmd.Flags().Bool("progress", false, "Report transfer progress on stderr")
}
