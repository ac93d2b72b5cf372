// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerndb/netapp-api-go/errors"
)

func responseBody(results string) []byte {
	return []byte(fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8' ?>
<netapp version='1.0' xmlns='http://www.netapp.com/filer/admin'>%s</netapp>`, results))
}

func eventRecords(ids ...int) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "<event-info><event-id>%d</event-id></event-info>", id)
	}
	return b.String()
}

func TestDecodeResultPassed(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>0</num-records></results>`)

	results, err := DecodeResult(body, nil)
	require.NoError(t, err)
	assert.Equal(t, "0", results.Child("num-records").Content())
}

func TestDecodeResultFailed(t *testing.T) {
	body := responseBody(`<results status="failed" reason="Bad filter" errno="14"/>`)
	query := []byte("<event-iter/>")

	_, err := DecodeResult(body, query)
	require.Error(t, err)
	require.True(t, IsAPIError(err))

	apiErr := err.(*APIError)
	assert.Equal(t, 14, apiErr.Code)
	assert.Equal(t, "Bad filter", apiErr.Reason)
	assert.Equal(t, "failed", apiErr.Status)
	assert.Equal(t, query, apiErr.FailingQuery)
}

func TestDecodeResultMissingStatus(t *testing.T) {
	body := responseBody(`<results><num-records>0</num-records></results>`)

	_, err := DecodeResult(body, nil)
	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
}

func TestDecodeResultNoResultsElement(t *testing.T) {
	_, err := DecodeResult(responseBody(""), nil)
	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
}

func TestDecodeResultMalformedBody(t *testing.T) {
	_, err := DecodeResult([]byte("setup failure, not xml"), nil)
	assert.Error(t, err)
}

func TestDecodePage(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>2</num-records>` +
		`<records>` + eventRecords(1, 2) + `</records><next-tag>T1</next-tag></results>`)

	page, err := DecodePage(body, "records", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.NumRecords)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "1", page.Records[0].FindText("event-id"))
	assert.Equal(t, "2", page.Records[1].FindText("event-id"))
	require.NotNil(t, page.NextTag)
	assert.Equal(t, "T1", *page.NextTag)
}

func TestDecodePageLastPageHasNoTag(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>1</num-records>` +
		`<records>` + eventRecords(5) + `</records></results>`)

	page, err := DecodePage(body, "records", nil)
	require.NoError(t, err)
	assert.Nil(t, page.NextTag)
}

func TestDecodePageEmptyTagIsNotAbsent(t *testing.T) {
	// An empty-but-present continuation tag still means more pages remain.
	body := responseBody(`<results status="passed"><num-records>1</num-records>` +
		`<records>` + eventRecords(5) + `</records><next-tag></next-tag></results>`)

	page, err := DecodePage(body, "records", nil)
	require.NoError(t, err)
	require.NotNil(t, page.NextTag)
	assert.Equal(t, "", *page.NextTag)
}

func TestDecodePageZeroRecords(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>0</num-records></results>`)

	page, err := DecodePage(body, "records", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Nil(t, page.NextTag)
}

func TestDecodePageRecordCountMismatch(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>3</num-records>` +
		`<records>` + eventRecords(1, 2) + `</records></results>`)

	_, err := DecodePage(body, "records", nil)
	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
}

func TestDecodePageMissingNumRecords(t *testing.T) {
	body := responseBody(`<results status="passed"><records>` + eventRecords(1) + `</records></results>`)

	_, err := DecodePage(body, "records", nil)
	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
}

func TestDecodePageAttributesListContainer(t *testing.T) {
	body := responseBody(`<results status="passed"><num-records>1</num-records>` +
		`<attributes-list><vserver-info><vserver-name>vs1</vserver-name></vserver-info></attributes-list></results>`)

	page, err := DecodePage(body, "attributes-list", nil)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "vs1", page.Records[0].FindText("vserver-name"))
}
