// Package sms sends text messages through the Twilio REST API.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/config"
)

const messagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// Client sends SMS through Twilio's Messages endpoint. In dry-run mode it
// logs the message instead of calling the gateway, so dev environments
// never text real parents.
type Client struct {
	cfg  *config.Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a Twilio SMS client.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log.With().Str("component", "sms").Logger(),
	}
}

// Send delivers one message to a phone number.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if c.cfg.SMSDryRun {
		c.log.Info().Str("to", to).Str("body", body).Msg("Dry run, SMS not sent")
		return nil
	}
	if c.cfg.TwilioAccountSID == "" || c.cfg.TwilioAuthToken == "" || c.cfg.TwilioFromNumber == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.TwilioFromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf(messagesURL, c.cfg.TwilioAccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.TwilioAccountSID, c.cfg.TwilioAuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio responded %d: %s", resp.StatusCode, detail)
	}

	c.log.Info().Str("to", to).Msg("SMS sent")
	return nil
}
