// vaultctl is a CLI client for the memory vault REST API.
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
		Use:   "vaultctl",
		Short: "CLI client for the memory vault REST API",
	}
)

// client builds a resty client with the bearer key from --key or
// MEMORY_VAULT_API_KEY.
func client() *resty.Client {
	c := resty.New().SetBaseURL(apiFlag)
	key := keyFlag
	if key == "" {
		key = os.Getenv("MEMORY_VAULT_API_KEY")
	}
	if key != "" {
		c.SetAuthToken(key)
	}
	return c
}

// printResult writes the response body and surfaces non-2xx as an error.
func printResult(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(os.Stdout, resp.String())
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Memory vault base URL")
	rootCmd.PersistentFlags().StringVarP(&keyFlag, "key", "k", "", "API key (or MEMORY_VAULT_API_KEY)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
