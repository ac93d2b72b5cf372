// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/cerndb/netapp-api-go/errors"
)

// StatusPassed is the results status value reported for successful calls.
const StatusPassed = "passed"

// APIError reports a call the server accepted but failed to execute: the
// transfer itself succeeded and the results node carried a status other than
// "passed". It is the primary error channel for the whole client.
type APIError struct {
	Status string
	Reason string
	Code   int
	// FailingQuery is the serialized request that provoked the error, kept
	// for diagnostics only.
	FailingQuery []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API status: %s, Reason: %s, Code: %d", e.Status, e.Reason, e.Code)
}

// IsAPIError reports whether err (or anything it wraps) is an APIError.
func IsAPIError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *APIError
	return errors.As(err, &errPtr)
}

// Page is one decoded page of an iterator-style response.
type Page struct {
	// Records holds the raw record elements in server-returned order.
	Records []*Element
	// NumRecords is the server-reported record count; it always equals
	// len(Records) on a successfully decoded page.
	NumRecords int
	// NextTag is the continuation token for the next page. nil means the
	// result set is exhausted; an empty-but-present tag still means more
	// pages remain, so the two must not be conflated.
	NextTag *string
}

// DecodeResult parses a response body, checks the results status, and returns
// the results element. A status other than "passed" surfaces as an *APIError
// carrying the reason, the numeric error code, and the failing query.
func DecodeResult(body, failingQuery []byte) (*Element, error) {
	root := &Element{}
	if err := xml.Unmarshal(body, root); err != nil {
		return nil, fmt.Errorf("error parsing API response; %v", err)
	}
	if root.Name() != "netapp" {
		return nil, errors.ContractError("unexpected root element %q in API response", root.Name())
	}
	results := root.Child("results")
	if results == nil {
		return nil, errors.ContractError("API response has no results element")
	}
	status, ok := results.Attr("status")
	if !ok {
		return nil, errors.ContractError("API results element has no status attribute")
	}
	if status != StatusPassed {
		reason, _ := results.Attr("reason")
		errnoAttr, _ := results.Attr("errno")
		code, err := strconv.Atoi(errnoAttr)
		if err != nil {
			code = -1
		}
		return nil, &APIError{
			Status:       status,
			Reason:       reason,
			Code:         code,
			FailingQuery: failingQuery,
		}
	}
	return results, nil
}

// DecodePage decodes one page of an iterator-style response. containerTag
// names the element holding the record list; the event service uses
// "records" while ONTAP iterators use "attributes-list". A record count that
// disagrees with the container's contents is a contract violation, never
// silently truncated or padded.
func DecodePage(body []byte, containerTag string, failingQuery []byte) (*Page, error) {
	results, err := DecodeResult(body, failingQuery)
	if err != nil {
		return nil, err
	}

	countElement := results.Child("num-records")
	if countElement == nil {
		return nil, errors.ContractError("paginated API response has no num-records element")
	}
	numRecords, err := strconv.Atoi(countElement.Content())
	if err != nil {
		return nil, errors.ContractError("num-records %q is not an integer", countElement.Content())
	}

	var records []*Element
	if container := results.Child(containerTag); container != nil {
		records = container.Children()
	}
	if numRecords != len(records) {
		return nil, errors.ContractError(
			"num-records reports %d records but %s holds %d", numRecords, containerTag, len(records))
	}

	page := &Page{
		Records:    records,
		NumRecords: numRecords,
	}
	if tagElement := results.Child("next-tag"); tagElement != nil {
		tag := tagElement.Content()
		page.NextTag = &tag
	}
	return page, nil
}
