package token

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted token bundle. Field names match the tokens.json
// layout written by earlier deployments so existing files keep loading.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	ExpiryDate   int64  `json:"expiry_date"` // epoch millis, 0 when unknown
}

// Expiry returns the expiry as a time, zero when unknown.
func (c Credential) Expiry() time.Time {
	if c.ExpiryDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiryDate)
}

// OAuth2Token converts the credential for use with oauth2 transports.
func (c Credential) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry(),
	}
}

// credentialFromToken builds a Credential from a token endpoint response.
// Google omits the refresh token (and sometimes the scope) on refresh, so
// those fall back to the previous credential.
func credentialFromToken(tok *oauth2.Token, previous *Credential) Credential {
	c := Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if c.TokenType == "" {
		c.TokenType = "Bearer"
	}
	if !tok.Expiry.IsZero() {
		c.ExpiryDate = tok.Expiry.UnixMilli()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		c.Scope = scope
	}
	if previous != nil {
		if c.RefreshToken == "" {
			c.RefreshToken = previous.RefreshToken
		}
		if c.Scope == "" {
			c.Scope = previous.Scope
		}
	}
	return c
}
