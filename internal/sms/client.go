// Package sms sends text messages through the Twilio REST API.
package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"wedding-site/internal/config"
)

var ErrNotConfigured = errors.New("sms gateway credentials not configured")

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client posts messages to the gateway's Messages resource
type Client struct {
	http *resty.Client
	cfg  config.SMSConfig
	log  zerolog.Logger
}

// NewClient returns ErrNotConfigured when account, token or sender number is missing
func NewClient(cfg config.SMSConfig, log zerolog.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(30*time.Second).
		SetRetryCount(0).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		cfg:  cfg,
		log:  log.With().Str("component", "sms").Logger(),
	}, nil
}

// Send delivers body to phone (E.164) and returns the message SID
func (c *Client) Send(ctx context.Context, phone, body string) (string, error) {
	var res messageResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("account", c.cfg.AccountSID).
		SetFormData(map[string]string{
			"To":   phone,
			"From": c.cfg.FromNumber,
			"Body": body,
		}).
		SetResult(&res).
		SetError(&apiErr).
		Post("/2010-04-01/Accounts/{account}/Messages.json")
	if err != nil {
		return "", fmt.Errorf("failed to send sms to %s: %w", phone, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sms to %s rejected (status %d, code %d): %s", phone, resp.StatusCode(), apiErr.Code, apiErr.Message)
	}

	c.log.Debug().Str("to", phone).Str("sid", res.SID).Str("status", res.Status).Msg("SMS queued")
	return res.SID, nil
}
