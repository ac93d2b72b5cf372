// Copyright 2019 CERN. All Rights Reserved.

package config

import "time"

type ServerType string

const (
	/* Server flavors speaking the XML management API */
	ServerTypeOCUM  ServerType = "OCUM"
	ServerTypeOntap ServerType = "ONTAP"

	/* Protocol constants */
	XMLNamespace    = "http://www.netapp.com/filer/admin"
	ProtocolVersion = "1.0"

	// DefaultAppName is reported to the server in the nmsdk_app attribute.
	DefaultAppName = "netapp-api-go"

	/* Service endpoints, differentiated by path on the same host */
	OCUMAPIPath  = "/apis/XMLrequest"
	FilerAPIPath = "/servlets/netapp.servlets.admin.XMLrequest_filer"

	StorageAPITimeoutSeconds = 90
)

// StorageAPITimeout is the default per-call HTTP timeout. A paginated query
// spanning many pages has no aggregate timeout.
const StorageAPITimeout = StorageAPITimeoutSeconds * time.Second
