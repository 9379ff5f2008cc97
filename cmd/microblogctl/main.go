package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag string
	keyFlag string
	rootCmd = &cobra.Command{
		Use:   "microblogctl",
		Short: "CLI client for the microblog REST API",
	}
)

func client() *resty.Client {
	c := resty.New().SetBaseURL(apiFlag)
	if keyFlag != "" {
		c.SetHeader("api-key", keyFlag)
	}
	return c
}

// print writes the raw response body and exits non-zero on HTTP failure.
func show(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, string(resp.Body()))
	if resp.IsError() {
		return fmt.Errorf("request failed: %s", resp.Status())
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Microblog service base URL")
	rootCmd.PersistentFlags().StringVarP(&keyFlag, "key", "k", "", "API key (api-key header)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
