package delivery

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// CommandClient executes one text command against the live game server
	// over its remote console transport and returns the raw result text.
	CommandClient interface {
		Execute(ctx context.Context, command string) (string, error)
	}

	soapClient struct {
		url      string
		username string
		password string
		client   *http.Client
	}
)

// NewSoapClient talks to the game server's SOAP console endpoint. The
// timeout is mandatory: a hung game server must classify as a failed
// delivery, never as a success.
func NewSoapClient(url, username, password string, timeout time.Duration) CommandClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &soapClient{
		url:      url,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

const soapEnvelopeFormat = `<?xml version="1.0" encoding="utf-8"?>` +
	`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ns1="urn:MaNGOS">` +
	`<SOAP-ENV:Body><ns1:executeCommand><command>%s</command></ns1:executeCommand></SOAP-ENV:Body>` +
	`</SOAP-ENV:Envelope>`

type soapResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Response struct {
			Result string `xml:"result"`
		} `xml:"executeCommandResponse"`
		Fault *struct {
			FaultString string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

func (c *soapClient) Execute(ctx context.Context, command string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(command)); err != nil {
		return "", err
	}
	payload := fmt.Sprintf(soapEnvelopeFormat, escaped.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("game server command transport: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed soapResponse
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("game server command response: %w", err)
	}
	if parsed.Body.Fault != nil {
		return "", fmt.Errorf("game server command fault: %s", parsed.Body.Fault.FaultString)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("game server command status %d", resp.StatusCode)
	}

	return parsed.Body.Response.Result, nil
}
