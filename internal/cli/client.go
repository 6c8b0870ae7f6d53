package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/internal/config"
	"github.com/restclient-go/restclient/internal/output"
	"github.com/restclient-go/restclient/restclient"
)

// buildClient assembles a client and the default headers for one command
// invocation: profile file first, command-line flags on top.
func buildClient(cmd *cobra.Command) (*restclient.Client, map[string]string, error) {
	profile, err := loadProfile(cmd)
	if err != nil {
		return nil, nil, err
	}

	var opts []restclient.ClientOption
	if profile.UserAgent != "" {
		opts = append(opts, restclient.WithUserAgent(profile.UserAgent))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		opts = append(opts, restclient.WithLogger(zerolog.New(console).With().Timestamp().Logger()))
	}

	client := restclient.NewClient(opts...)

	if user, _ := cmd.Flags().GetString("user"); user != "" {
		username, password, _ := strings.Cut(user, ":")
		client.SetAuth(username, password)
	} else if profile.Auth != nil {
		client.SetAuth(profile.Auth.Username, profile.Auth.Password)
	}

	if cookie, _ := cmd.Flags().GetString("cookie"); cookie != "" {
		client.SetCookies(cookie)
	} else if profile.Cookies != "" {
		client.SetCookies(profile.Cookies)
	}

	headers := make(map[string]string)
	for key, value := range profile.Headers {
		headers[key] = value
	}
	headerArgs, _ := cmd.Flags().GetStringArray("header")
	for _, header := range headerArgs {
		key, value, found := strings.Cut(header, ":")
		if !found {
			return nil, nil, fmt.Errorf("invalid header %q, expected key:value", header)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return client, headers, nil
}

func loadProfile(cmd *cobra.Command) (config.Profile, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return config.Profile{}, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Profile{}, err
	}

	name, _ := cmd.Flags().GetString("profile")
	return cfg.Profile(name)
}

func newFormatter(cmd *cobra.Command) *output.Formatter {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return output.NewFormatter(verbose, colorDisabled(cmd))
}

// printResponse renders the response; transport failures become a non-zero
// exit through the returned error.
func printResponse(cmd *cobra.Command, resp *restclient.Response) error {
	fmt.Print(newFormatter(cmd).FormatResponse(resp))
	if resp.IsTransportFailure() {
		return fmt.Errorf("request failed")
	}
	return nil
}
