// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	xrv "github.com/mattermost/xml-roundtrip-validator"
	log "github.com/sirupsen/logrus"

	"github.com/cerndb/netapp-api-go/config"
	"github.com/cerndb/netapp-api-go/errors"
)

// Endpoint is one of the fixed service paths exposed by a management host.
type Endpoint string

const (
	// EndpointOCUM is the OnCommand Unified Manager event/monitoring service.
	EndpointOCUM Endpoint = config.OCUMAPIPath
	// EndpointFiler is the ONTAP storage-management service.
	EndpointFiler Endpoint = config.FilerAPIPath
)

// RunnerConfig holds the static configuration for a Runner.
type RunnerConfig struct {
	ManagementLIF   string
	SVM             string
	Username        string
	Password        string
	Secure          bool
	AppName         string
	Timeout         time.Duration
	HTTPClient      *http.Client // optional; built from Secure/Timeout if nil
	DebugTraceFlags map[string]bool // Example: {"api":false, "method":true}
}

// Runner issues XML API requests against a management LIF. All fields are
// fixed at construction except the svm tunneling scope, which may be
// temporarily overridden; see SetSVM. A Runner performs no retries and keeps
// no per-call state, so independent queries may interleave freely.
type Runner struct {
	config     RunnerConfig
	httpClient *http.Client

	m   *sync.RWMutex
	svm string
}

// NewRunner is a factory method for creating a new Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.AppName == "" {
		cfg.AppName = config.DefaultAppName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.StorageAPITimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		tr := &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		httpClient = &http.Client{
			Transport: tr,
			Timeout:   cfg.Timeout,
		}
	}
	return &Runner{
		config:     cfg,
		httpClient: httpClient,
		m:          &sync.RWMutex{},
		svm:        cfg.SVM,
	}
}

// GetSVM returns the current vserver tunneling scope.
func (o *Runner) GetSVM() string {
	o.m.RLock()
	defer o.m.RUnlock()
	return o.svm
}

// SetSVM changes the vserver tunneling scope for subsequent requests. The
// scope is shared by every query on this Runner, so scoped overrides are not
// safe for concurrent use from multiple goroutines on the same connection.
func (o *Runner) SetSVM(svm string) {
	o.m.Lock()
	defer o.m.Unlock()
	o.svm = svm
}

// CopyForNontunneled returns a copy of the Runner with the svm scope cleared,
// so requests made with it aren't tunneled to a vserver.
func (o *Runner) CopyForNontunneled() *Runner {
	clone := &Runner{
		config:     o.config,
		httpClient: o.httpClient,
		m:          &sync.RWMutex{},
	}
	return clone
}

// Send wraps the query in a fresh envelope and performs exactly one POST
// against the given endpoint, returning the validated raw response body.
// Transport-level failures (connect, timeout, non-2xx) are fatal and are not
// retried here; retries, if any, are the caller's responsibility.
func (o *Runner) Send(ctx context.Context, endpoint Endpoint, query *Element) ([]byte, error) {
	if o.config.DebugTraceFlags["method"] {
		fields := log.Fields{"Method": "Send", "Type": "Runner"}
		log.WithFields(fields).Debug(">>>> Send")
		defer log.WithFields(fields).Debug("<<<< Send")
	}

	queryXML, err := query.ToXML()
	if err != nil {
		return nil, err
	}

	svm := o.GetSVM()
	var s string
	if svm == "" {
		s = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
        <netapp xmlns="%s" version="%s" nmsdk_app="%s">
            %s
        </netapp>`, config.XMLNamespace, config.ProtocolVersion, o.config.AppName, queryXML)
	} else {
		s = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
        <netapp xmlns="%s" version="%s" nmsdk_app="%s" vfiler="%s">
            %s
        </netapp>`, config.XMLNamespace, config.ProtocolVersion, o.config.AppName, svm, queryXML)
	}

	url := "http://" + o.config.ManagementLIF + string(endpoint)
	if o.config.Secure {
		url = "https://" + o.config.ManagementLIF + string(endpoint)
	}
	if o.config.DebugTraceFlags["api"] {
		log.Debugf("sending to '%s' xml: \n%s", url, s)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(s))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/xml")
	request.SetBasicAuth(o.config.Username, o.config.Password)

	response, err := o.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode == http.StatusUnauthorized {
		return nil, errors.New("response code 401 (Unauthorized): incorrect or missing credentials")
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP response code %d from %s", response.StatusCode, url)
	}

	if o.config.DebugTraceFlags["api"] {
		log.Debugf("response Status: %s", response.Status)
		log.Debugf("response Headers: %s", response.Header)
	}

	body, err := ValidateResponse(response)
	if err != nil {
		return nil, err
	}
	if o.config.DebugTraceFlags["api"] {
		log.Debugf("response Body:\n%s", string(body))
	}
	return body, nil
}

// ValidateResponse reads the response body and checks it for XML constructs
// that round-trip unsafely through Go's decoder before any decoding happens.
func ValidateResponse(response *http.Response) ([]byte, error) {
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if err = xrv.Validate(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("API response failed XML validation; %v", err)
	}
	return body, nil
}
