// Copyright 2019 CERN. All Rights Reserved.

// Package api is a client for the XML management interface exposed by NetApp
// OCUM and ONTAP systems: paginated queries over events, volumes, snapshots,
// locks, aggregates, vservers and export policies, plus the one-shot
// mutations that go with them. All calls are synchronous; each paginated
// query owns an independent cursor, so queries may be nested or interleaved
// freely on one client.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cerndb/netapp-api-go/api/zapi"
	netappconfig "github.com/cerndb/netapp-api-go/config"
)

// ClientConfig holds the configuration data for Client objects
type ClientConfig struct {
	// ManagementLIF is the host (or host:port) of the management interface.
	ManagementLIF string
	// ServerType selects the service endpoint: OCUM exposes the event log,
	// ONTAP the storage-management APIs. Defaults to ONTAP.
	ServerType netappconfig.ServerType
	// SVM optionally tunnels every request to the named vserver.
	SVM             string
	Username        string
	Password        string
	Secure          bool
	AppName         string
	Timeout         time.Duration
	HTTPClient      *http.Client
	DebugTraceFlags map[string]bool
}

// Client is the object to use for interacting with OCUM and ONTAP systems.
// It holds static configuration only; the single piece of shared mutable
// state is the vserver tunneling scope, so WithVserver must not be used from
// multiple goroutines against the same Client.
type Client struct {
	config   ClientConfig
	zr       *zapi.Runner
	endpoint zapi.Endpoint
}

// NewClient is a factory method for creating a new instance
func NewClient(config ClientConfig) *Client {
	endpoint := zapi.EndpointFiler
	if config.ServerType == netappconfig.ServerTypeOCUM {
		endpoint = zapi.EndpointOCUM
	}
	return &Client{
		config: config,
		zr: zapi.NewRunner(zapi.RunnerConfig{
			ManagementLIF:   config.ManagementLIF,
			SVM:             config.SVM,
			Username:        config.Username,
			Password:        config.Password,
			Secure:          config.Secure,
			AppName:         config.AppName,
			Timeout:         config.Timeout,
			HTTPClient:      config.HTTPClient,
			DebugTraceFlags: config.DebugTraceFlags,
		}),
		endpoint: endpoint,
	}
}

// Runner exposes the wire-level runner, mainly for tests.
func (c *Client) Runner() *zapi.Runner { return c.zr }

// WithVserver runs fn with every request tunneled to the named vserver,
// restoring the previous scope on all exit paths, including error returns
// and panics.
func (c *Client) WithVserver(vserver string, fn func() error) error {
	previous := c.zr.GetSVM()
	c.zr.SetSVM(vserver)
	defer c.zr.SetSVM(previous)
	return fn()
}

// NontunneledClient returns a copy of this Client whose requests aren't
// tunneled to a vserver, for cluster-scoped calls.
func (c *Client) NontunneledClient() *Client {
	clone := *c
	clone.zr = c.zr.CopyForNontunneled()
	return &clone
}

// invoke performs a one-shot (non-paginated) call and returns the results
// element. Failures surface as a transport error or a *zapi.APIError.
func (c *Client) invoke(ctx context.Context, query *zapi.Element) (*zapi.Element, error) {
	body, err := c.zr.Send(ctx, c.endpoint, query)
	if err != nil {
		return nil, err
	}
	queryXML, _ := query.ToXML()
	return zapi.DecodeResult(body, []byte(queryXML))
}
