// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLIF = "netapp-1234.example.org"

func newTestRunner(t *testing.T) (*Runner, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	runner := NewRunner(RunnerConfig{
		ManagementLIF: testLIF,
		Username:      "admin",
		Password:      "admin123",
		Secure:        true,
		HTTPClient:    &http.Client{Transport: transport},
	})
	return runner, transport
}

func passedBody() string {
	return `<?xml version='1.0' encoding='UTF-8' ?>
<netapp version='1.0' xmlns='http://www.netapp.com/filer/admin'>
<results status="passed"><num-records>0</num-records></results></netapp>`
}

func TestSendEnvelopeAndHeaders(t *testing.T) {
	runner, transport := newTestRunner(t)

	var captured *http.Request
	var capturedBody []byte
	transport.RegisterResponder("POST", "https://"+testLIF+string(EndpointOCUM),
		func(req *http.Request) (*http.Response, error) {
			captured = req
			capturedBody, _ = io.ReadAll(req.Body)
			return httpmock.NewStringResponse(200, passedBody()), nil
		})

	_, err := runner.Send(context.Background(), EndpointOCUM, New("event-iter", Int("timeout", 0)))
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "application/xml", captured.Header.Get("Content-Type"))
	username, password, ok := captured.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", username)
	assert.Equal(t, "admin123", password)

	body := string(capturedBody)
	assert.Contains(t, body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, body, `xmlns="http://www.netapp.com/filer/admin"`)
	assert.Contains(t, body, `version="1.0"`)
	assert.Contains(t, body, `nmsdk_app="netapp-api-go"`)
	assert.NotContains(t, body, "vfiler")
	assert.Contains(t, body, "<event-iter>")
	assert.Contains(t, body, "<timeout>0</timeout>")
}

func TestSendTunnelsToSVM(t *testing.T) {
	runner, transport := newTestRunner(t)
	runner.SetSVM("vs1")

	var capturedBody []byte
	transport.RegisterResponder("POST", "https://"+testLIF+string(EndpointFiler),
		func(req *http.Request) (*http.Response, error) {
			capturedBody, _ = io.ReadAll(req.Body)
			return httpmock.NewStringResponse(200, passedBody()), nil
		})

	_, err := runner.Send(context.Background(), EndpointFiler, New("volume-get-iter"))
	require.NoError(t, err)
	assert.Contains(t, string(capturedBody), `vfiler="vs1"`)
}

func TestSendUnauthorized(t *testing.T) {
	runner, transport := newTestRunner(t)
	transport.RegisterResponder("POST", "https://"+testLIF+string(EndpointOCUM),
		httpmock.NewStringResponder(401, ""))

	_, err := runner.Send(context.Background(), EndpointOCUM, New("event-iter"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendHTTPFailure(t *testing.T) {
	runner, transport := newTestRunner(t)
	transport.RegisterResponder("POST", "https://"+testLIF+string(EndpointOCUM),
		httpmock.NewStringResponder(500, "internal server error"))

	_, err := runner.Send(context.Background(), EndpointOCUM, New("event-iter"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestValidateResponse(t *testing.T) {
	// Sample of exploit-capable xml
	// from https://github.com/mattermost/xml-roundtrip-validator/blob/master/validator_test.go used as a sanity test
	simpleInvalidResponseBody := `<Root ::attr="x">]]><x::Element/></Root>`

	sampleResponse := &http.Response{
		Body:          io.NopCloser(bytes.NewBufferString(simpleInvalidResponseBody)),
		ContentLength: int64(len(simpleInvalidResponseBody)),
	}
	_, err := ValidateResponse(sampleResponse)
	assert.Error(t, err, "should error on input with colons in an attribute's name")

	// An invalid xml directive inside an otherwise valid response must pass
	// validation with Go 1.17+, since real filers emit DOCTYPE noise.
	directiveBody := `<?xml version='1.0' encoding='UTF-8' ?>
<!DOCTYPE netapp SYSTEM 'file:/etc/netapp_gx.dtd'><netapp version='1.0' xmlns='http://www.netapp.com/filer/admin'>
<! <<!-- -->!-->"--> " ><! ">" <X/>><results status="passed"><num-records>0</num-records></results></netapp>`

	sampleResponse = &http.Response{
		Body:          io.NopCloser(bytes.NewBufferString(directiveBody)),
		ContentLength: int64(len(directiveBody)),
	}
	_, err = ValidateResponse(sampleResponse)
	assert.NoError(t, err)
}

func TestGetSVM(t *testing.T) {
	runner := NewRunner(RunnerConfig{ManagementLIF: testLIF, SVM: "test_svm"})
	assert.Equal(t, "test_svm", runner.GetSVM())

	runner.SetSVM("other_svm")
	assert.Equal(t, "other_svm", runner.GetSVM())
}

func TestCopyForNontunneled(t *testing.T) {
	original := NewRunner(RunnerConfig{ManagementLIF: testLIF, SVM: "test_svm"})

	copied := original.CopyForNontunneled()

	assert.NotSame(t, original, copied)
	assert.Equal(t, "", copied.GetSVM())
	assert.Equal(t, "test_svm", original.GetSVM())
}
