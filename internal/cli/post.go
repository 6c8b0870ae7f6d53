package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/restclient"
)

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Make a POST request to the specified URL",
	Long: `Make a POST request. With -F flags the body is a multipart form:
-F name=value adds a string field, -F name=@path uploads a file. With -d
the body is sent as-is with the content type from -t.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, headers, err := buildClient(cmd)
		if err != nil {
			return err
		}

		fields, _ := cmd.Flags().GetStringArray("form")
		data, _ := cmd.Flags().GetString("data")
		contentType, _ := cmd.Flags().GetString("content-type")

		if len(fields) > 0 && data != "" {
			return fmt.Errorf("-F and -d are mutually exclusive")
		}
		if len(fields) == 0 && data == "" {
			return fmt.Errorf("a POST needs either -F form fields or -d data")
		}

		req := restclient.NewRequest(args[0]).WithHeaders(headers)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Print(newFormatter(cmd).FormatRequest("POST", req))
		}

		var resp *restclient.Response
		if len(fields) > 0 {
			form, err := parseFormFields(fields)
			if err != nil {
				return err
			}
			resp = client.Post(cmd.Context(), req, form)
		} else {
			resp = client.PostData(cmd.Context(), req, contentType, []byte(data))
		}

		return printResponse(cmd, resp)
	},
}

// parseFormFields turns name=value / name=@path flags into form fields
func parseFormFields(fields []string) (map[string]restclient.FormField, error) {
	form := make(map[string]restclient.FormField, len(fields))
	for _, field := range fields {
		name, value, found := strings.Cut(field, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid form field %q, expected name=value or name=@file", field)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			form[name] = restclient.FileField(path)
		} else {
			form[name] = restclient.TextField(value)
		}
	}
	return form, nil
}

func init() {
	postCmd.Flags().StringArrayP("form", "F", []string{}, "Multipart form field, name=value or name=@file (can be used multiple times)")
	postCmd.Flags().StringP("data", "d", "", "Raw request body")
	postCmd.Flags().StringP("content-type", "t", "application/json", "Content type for -d bodies")
}
