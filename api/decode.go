// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"strconv"

	"github.com/cerndb/netapp-api-go/api/zapi"
	"github.com/cerndb/netapp-api-go/errors"
)

// Projection helpers shared by the per-entity record decoders. Optional
// string fields decode to "", optional numeric and boolean fields to nil.
// A missing mandatory field, or a malformed value in any present field, is a
// contract violation: the record came from the server, so garbage in it is a
// defect rather than a recoverable condition. Boolean fields are strict
// everywhere and accept exactly the literals "true" and "false".

func requiredText(record *zapi.Element, path string) (string, error) {
	node := record.Find(path)
	if node == nil || node.Content() == "" {
		return "", errors.ContractError("record is missing mandatory field %s", path)
	}
	return node.Content(), nil
}

func requiredInt(record *zapi.Element, path string) (int, error) {
	text, err := requiredText(record, path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.ContractError("field %s value %q is not an integer", path, text)
	}
	return value, nil
}

func requiredInt64(record *zapi.Element, path string) (int64, error) {
	text, err := requiredText(record, path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, errors.ContractError("field %s value %q is not an integer", path, text)
	}
	return value, nil
}

func optionalInt(record *zapi.Element, path string) (*int, error) {
	node := record.Find(path)
	if node == nil || node.Content() == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(node.Content())
	if err != nil {
		return nil, errors.ContractError("field %s value %q is not an integer", path, node.Content())
	}
	return &value, nil
}

func optionalInt64(record *zapi.Element, path string) (*int64, error) {
	node := record.Find(path)
	if node == nil || node.Content() == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(node.Content(), 10, 64)
	if err != nil {
		return nil, errors.ContractError("field %s value %q is not an integer", path, node.Content())
	}
	return &value, nil
}

func optionalBool(record *zapi.Element, path string) (*bool, error) {
	node := record.Find(path)
	if node == nil || node.Content() == "" {
		return nil, nil
	}
	switch node.Content() {
	case "true":
		value := true
		return &value, nil
	case "false":
		value := false
		return &value, nil
	}
	return nil, errors.ContractError("field %s value %q is not a boolean", path, node.Content())
}

// textList collects the text of every child of the element at path, e.g. the
// <protocol> entries under <allowed-protocols>.
func textList(record *zapi.Element, path string) []string {
	node := record.Find(path)
	if node == nil {
		return nil
	}
	var values []string
	for _, child := range node.Children() {
		values = append(values, child.Content())
	}
	return values
}
