// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// ExportPolicy is one export policy as reported by export-policy-get-iter.
// Unlike every other record type it keeps a reference to the client that
// produced it, solely so Rules can fetch the policy's rule list on demand.
type ExportPolicy struct {
	Name    string
	ID      *int64
	Vserver string

	client *Client
}

// Rules fetches the policy's export rules, ordered by rule index. The rule
// list is never cached; every call reflects the server's current state.
func (p ExportPolicy) Rules(ctx context.Context) ([]ExportRule, error) {
	return p.client.ExportRules(ctx, p.Name, p.Vserver).Collect()
}

// ExportRule is one rule of an export policy.
type ExportRule struct {
	Index       int
	Policy      string
	Vserver     string
	ClientMatch string
	RoRules     []string
	RwRules     []string
	SuperUser   []string
	Protocols   []string
}

// ExportPolicyFilter selects a subset of export policies. The zero value
// matches everything the current scope can see.
type ExportPolicyFilter struct {
	Name       string
	Vserver    string
	MaxRecords *int
}

func (f ExportPolicyFilter) query() *zapi.Element {
	q := zapi.New("export-policy-get-iter")
	info := zapi.New("export-policy-info")
	if f.Name != "" {
		info.Append(zapi.Str("policy-name", f.Name))
	}
	if f.Vserver != "" {
		info.Append(zapi.Str("vserver", f.Vserver))
	}
	if len(info.Children()) > 0 {
		q.Append(zapi.New("query", info))
	}
	if f.MaxRecords != nil {
		q.Append(zapi.Int("max-records", *f.MaxRecords))
	}
	return q
}

// ExportPolicies returns a lazy sequence of export policies matching the
// filter.
func (c *Client) ExportPolicies(ctx context.Context, filter ExportPolicyFilter) *zapi.Iterator[ExportPolicy] {
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", filter.query(), c.decodeExportPolicy)
}

// ExportPolicyByName returns the single export policy with the given name,
// or a not-found error if no such policy exists.
func (c *Client) ExportPolicyByName(ctx context.Context, name string) (ExportPolicy, error) {
	it := c.ExportPolicies(ctx, ExportPolicyFilter{Name: name})
	return zapi.First(it, "export policy")
}

// ExportRules returns a lazy sequence of the rules of the named policy,
// ordered by rule index. vserver may be "" when the connection is already
// tunneled.
func (c *Client) ExportRules(ctx context.Context, policy, vserver string) *zapi.Iterator[ExportRule] {
	info := zapi.New("export-rule-info", zapi.Str("policy-name", policy))
	if vserver != "" {
		info.Append(zapi.Str("vserver-name", vserver))
	}
	q := zapi.New("export-rule-get-iter", zapi.New("query", info))
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", q, decodeExportRule)
}

// decodeExportPolicy is a method rather than a free function because the
// resulting record captures the client for lazy rule fetches.
func (c *Client) decodeExportPolicy(record *zapi.Element) (ExportPolicy, error) {
	name, err := requiredText(record, "policy-name")
	if err != nil {
		return ExportPolicy{}, err
	}
	policy := ExportPolicy{
		Name:    name,
		Vserver: record.FindText("vserver"),
		client:  c,
	}
	if policy.ID, err = optionalInt64(record, "policy-id"); err != nil {
		return ExportPolicy{}, err
	}
	return policy, nil
}

func decodeExportRule(record *zapi.Element) (ExportRule, error) {
	index, err := requiredInt(record, "rule-index")
	if err != nil {
		return ExportRule{}, err
	}
	return ExportRule{
		Index:       index,
		Policy:      record.FindText("policy-name"),
		Vserver:     record.FindText("vserver-name"),
		ClientMatch: record.FindText("client-match"),
		RoRules:     textList(record, "ro-rule"),
		RwRules:     textList(record, "rw-rule"),
		SuperUser:   textList(record, "super-user-security"),
		Protocols:   textList(record, "protocol"),
	}, nil
}

// ExportPolicyCreate creates an empty export policy.
func (c *Client) ExportPolicyCreate(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("export-policy-create", zapi.Str("policy-name", name)))
	return err
}

// ExportPolicyDestroy destroys an export policy and all its rules.
func (c *Client) ExportPolicyDestroy(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("export-policy-destroy", zapi.Str("policy-name", name)))
	return err
}

// ExportRuleRequest carries the parameters of an export-rule-create call.
type ExportRuleRequest struct {
	Policy      string
	ClientMatch string
	RoRules     []string
	RwRules     []string
	SuperUser   []string
	Protocols   []string
	// Index places the rule at a specific position when non-nil; the
	// server appends otherwise.
	Index *int
}

// ExportRuleCreate adds a rule to an export policy.
func (c *Client) ExportRuleCreate(ctx context.Context, request ExportRuleRequest) error {
	q := zapi.New("export-rule-create",
		zapi.Str("policy-name", request.Policy),
		zapi.Str("client-match", request.ClientMatch))
	q.Append(securityFlavors("ro-rule", request.RoRules))
	q.Append(securityFlavors("rw-rule", request.RwRules))
	if len(request.SuperUser) > 0 {
		q.Append(securityFlavors("super-user-security", request.SuperUser))
	}
	if len(request.Protocols) > 0 {
		protocols := zapi.New("protocol")
		for _, protocol := range request.Protocols {
			protocols.Append(zapi.Str("access-protocol", protocol))
		}
		q.Append(protocols)
	}
	if request.Index != nil {
		q.Append(zapi.Int("rule-index", *request.Index))
	}
	_, err := c.invoke(ctx, q)
	return err
}

// ExportRuleDestroy removes the rule at the given index from a policy.
func (c *Client) ExportRuleDestroy(ctx context.Context, policy string, index int) error {
	_, err := c.invoke(ctx, zapi.New("export-rule-destroy",
		zapi.Str("policy-name", policy),
		zapi.Int("rule-index", index)))
	return err
}

func securityFlavors(name string, flavors []string) *zapi.Element {
	list := zapi.New(name)
	for _, flavor := range flavors {
		list.Append(zapi.Str("security-flavor", flavor))
	}
	return list
}
