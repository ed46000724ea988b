package sms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const apiURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// Client talks to the SMS provider HTTP API. With DryRun set it skips the
// network call, which is how local and CI environments run.
type Client struct {
	apiKey     string
	sender     string
	dryRun     bool
	httpClient *http.Client
}

type sendResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClient(apiKey, sender string, dryRun bool) *Client {
	return &Client{
		apiKey:     apiKey,
		sender:     sender,
		dryRun:     dryRun || apiKey == "",
		httpClient: &http.Client{},
	}
}

func (c *Client) Send(ctx context.Context, to string, text string) error {
	if c.dryRun {
		return nil
	}

	form := url.Values{
		"apiKey":    {c.apiKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.sender != "" {
		form.Set("from", c.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build sms request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send sms request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read sms response")
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return errors.Wrap(err, "parse sms response")
	}
	if result.Code != 0 {
		return errors.Errorf("sms provider returned error code %d", result.Code)
	}

	return nil
}
