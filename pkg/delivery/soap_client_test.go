package delivery

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><ns1:executeCommandResponse xmlns:ns1="urn:MaNGOS">
<result>Mail sent to Thrall</result>
</ns1:executeCommandResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`

const faultEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body><SOAP-ENV:Fault>
<faultcode>SOAP-ENV:Client</faultcode>
<faultstring>There is no such command</faultstring>
</SOAP-ENV:Fault></SOAP-ENV:Body></SOAP-ENV:Envelope>`

func TestSoapClientExecute(t *testing.T) {
	var gotBody string
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte(successEnvelope))
	}))
	defer server.Close()

	client := NewSoapClient(server.URL, "console", "secret", time.Second)
	result, err := client.Execute(context.Background(), `.send items Thrall "a <b>" "c" 1:1`)
	require.NoError(t, err)

	assert.Equal(t, "Mail sent to Thrall", result)
	assert.Equal(t, "console", gotUser)
	assert.Equal(t, "secret", gotPass)
	// XML-sensitive characters must be escaped inside the envelope.
	assert.Contains(t, gotBody, "a &lt;b&gt;")
	assert.Contains(t, gotBody, "urn:MaNGOS")
}

func TestSoapClientFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(faultEnvelope))
	}))
	defer server.Close()

	client := NewSoapClient(server.URL, "console", "secret", time.Second)
	_, err := client.Execute(context.Background(), ".bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "There is no such command")
}

func TestSoapClientUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewSoapClient(server.URL, "console", "secret", time.Second)
	_, err := client.Execute(context.Background(), ".server info")
	assert.Error(t, err)
}

func TestSoapClientGarbageResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer server.Close()

	client := NewSoapClient(server.URL, "console", "secret", time.Second)
	_, err := client.Execute(context.Background(), ".server info")
	assert.Error(t, err)
}
