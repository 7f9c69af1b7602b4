package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Manage the admin OAuth2 credential",
}

var oauthURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the consent URL to open in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		state, err := newStateSigner(cfg).Mint()
		if err != nil {
			return err
		}
		tokens := newTokenManager(cfg)
		fmt.Fprintln(cmd.OutOrStdout(), tokens.AuthCodeURL(state))
		return nil
	},
}

var oauthExchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code and store the credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens := newTokenManager(cfg)
		if err := tokens.Exchange(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Authorization successful, credential stored in %s\n", cfg.Storage.TokenPath)
		return nil
	},
}

var oauthStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a credential is stored and when it expires",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens := newTokenManager(cfg)
		out := cmd.OutOrStdout()

		cred, ok := tokens.Credential()
		if !ok || !tokens.IsAuthorized() {
			fmt.Fprintln(out, "OAuth2 authorization required")
			return nil
		}
		fmt.Fprintln(out, "OAuth2 is configured and ready")
		fmt.Fprintf(out, "  access token:  %s\n", maskSecret(cred.AccessToken))
		fmt.Fprintf(out, "  refresh token: %v\n", cred.RefreshToken != "")
		if cred.ExpiryDate != 0 {
			fmt.Fprintf(out, "  expires:       %s\n", cred.Expiry().Format(time.RFC3339))
		}
		return nil
	},
}

var oauthRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token now",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens := newTokenManager(cfg)
		if err := tokens.Refresh(cmd.Context()); err != nil {
			return err
		}
		cred, _ := tokens.Credential()
		fmt.Fprintf(cmd.OutOrStdout(), "Access token refreshed, expires %s\n", cred.Expiry().Format(time.RFC3339))
		return nil
	},
}

func init() {
	oauthCmd.AddCommand(oauthURLCmd, oauthExchangeCmd, oauthStatusCmd, oauthRefreshCmd)
}
