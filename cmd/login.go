package main

import (
	"encoding/json"
	"fmt"
	"os"

	"tdrs/internal/store"
	"tdrs/internal/testsession"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log a test session in through the test-only login endpoint",
	Long: `Log a test session in by posting the username and the shared
CYPRESS_TOKEN to <API_URL>/login/cypress, then print the resulting auth state.

Example:
  tdrs login a@b.com`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := store.New()
	authn := testsession.New(testsession.Config{
		APIURL: cfg.APIURL,
		Token:  cfg.CypressToken,
	}, s, testsession.WithLogger(logger))

	if err := authn.Login(cmd.Context(), args[0]); err != nil {
		return err
	}

	user, _ := s.User()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(store.AuthPayload{User: user}); err != nil {
		return fmt.Errorf("failed to print auth state: %w", err)
	}
	return nil
}
