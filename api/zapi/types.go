// Copyright 2019 CERN. All Rights Reserved.

package zapi

// Well-known API error codes, as carried in the errno attribute of a failed
// results node and exposed as APIError.Code.
const (
	EAPIERROR           = 13001
	EAPIPRIVILEGE       = 13003
	EAPINOTFOUND        = 13005
	EVOLUMEDOESNOTEXIST = 13040
	EVOLUMEOFFLINE      = 13042
	EVOLUMENOTMOUNTED   = 13069
	EINTERNALERROR      = 13114
	EINVALIDINPUTERROR  = 13115
	EDUPLICATEENTRY     = 13130
	EOBJECTNOTFOUND     = 15661
)

// IsNotFound reports whether the error carries the object-not-found code.
func (e *APIError) IsNotFound() bool {
	return e.Code == EOBJECTNOTFOUND || e.Code == EVOLUMEDOESNOTEXIST
}

// IsPrivilegeError reports whether the error indicates insufficient privilege.
func (e *APIError) IsPrivilegeError() bool {
	return e.Code == EAPIPRIVILEGE
}

// IsScopeError reports whether the API is missing or hidden at the current
// privilege or tunneling scope.
func (e *APIError) IsScopeError() bool {
	return e.Code == EAPIPRIVILEGE || e.Code == EAPINOTFOUND
}
