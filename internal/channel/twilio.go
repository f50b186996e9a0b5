// internal/channel/twilio.go
package channel

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// TwilioChannel sends messages through a Twilio-compatible HTTP API
// (WhatsApp or SMS, depending on the configured sender address).
type TwilioChannel struct {
	client     *resty.Client
	accountSID string
	from       string
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewTwilioChannel(baseURL, accountSID, authToken, from string) *TwilioChannel {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(accountSID, authToken)

	return &TwilioChannel{
		client:     client,
		accountSID: accountSID,
		from:       from,
	}
}

func (c *TwilioChannel) Send(ctx context.Context, recipient, body, mediaURL string) (string, error) {
	form := map[string]string{
		"From": c.from,
		"To":   recipient,
		"Body": body,
	}
	if mediaURL != "" {
		form["MediaUrl"] = mediaURL
	}

	var ok twilioResponse
	var apiErr twilioError

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&ok).
		SetError(&apiErr).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return "", fmt.Errorf("channel request: %w", err)
	}

	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("channel rejected message (code %d): %s", apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("channel rejected message: status %d", resp.StatusCode())
	}

	if ok.ErrorCode != nil {
		return "", fmt.Errorf("channel error %d: %s", *ok.ErrorCode, ok.ErrorMessage)
	}

	return ok.SID, nil
}
