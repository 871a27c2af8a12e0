package param

import (
	"fmt"
	"sort"
)

// Kind identifies a resource kind with a published attribute schema.
type Kind string

// Resource kinds whose attributes are exchanged across stacks.
const (
	KindVPC         Kind = "vpc"
	KindRDS         Kind = "rds"
	KindElastiCache Kind = "elasticache"
	KindECR         Kind = "ecr"
	KindFunction    Kind = "function"
)

// Attribute keys per kind. Consumers reference these when importing.
const (
	AttrVPCID             = "vpc-id"
	AttrVPCCIDR           = "cidr"
	AttrPublicSubnetIDs   = "public-subnet-ids"
	AttrPrivateSubnetIDs  = "private-subnet-ids"
	AttrIsolatedSubnetIDs = "isolated-subnet-ids"

	AttrDBHost            = "host"
	AttrDBPort            = "port"
	AttrDBName            = "dbname"
	AttrDBSecurityGroupID = "security-group-id"
	AttrDBSecretARN       = "secret-arn"

	AttrCacheHost            = "host"
	AttrCachePort            = "port"
	AttrCacheSecurityGroupID = "security-group-id"

	AttrRepositoryURI = "repository-uri"
	AttrRepositoryARN = "repository-arn"
	AttrRegistryID    = "registry-id"

	AttrFunctionARN  = "arn"
	AttrFunctionName = "name"
	AttrRoleARN      = "role-arn"
)

// attrSpec describes one attribute of a kind's schema. List attributes hold
// one element per availability zone (subnet tiers), resolved positionally.
type attrSpec struct {
	key  string
	list bool
}

// kindSchemas is the authoritative map of which attributes exist per kind.
// Import requests are checked against it before any registry read, so an
// undefined key fails as a programming error rather than a missing
// parameter.
var kindSchemas = map[Kind][]attrSpec{
	KindVPC: {
		{key: AttrVPCID},
		{key: AttrVPCCIDR},
		{key: AttrPublicSubnetIDs, list: true},
		{key: AttrPrivateSubnetIDs, list: true},
		{key: AttrIsolatedSubnetIDs, list: true},
	},
	KindRDS: {
		{key: AttrDBHost},
		{key: AttrDBPort},
		{key: AttrDBName},
		{key: AttrDBSecurityGroupID},
		{key: AttrDBSecretARN},
	},
	KindElastiCache: {
		{key: AttrCacheHost},
		{key: AttrCachePort},
		{key: AttrCacheSecurityGroupID},
	},
	KindECR: {
		{key: AttrRepositoryURI},
		{key: AttrRepositoryARN},
		{key: AttrRegistryID},
	},
	KindFunction: {
		{key: AttrFunctionARN},
		{key: AttrFunctionName},
		{key: AttrRoleARN},
	},
}

// schemaOf returns the attribute schema for kind, or an error for an
// unregistered kind.
func schemaOf(kind Kind) ([]attrSpec, error) {
	schema, ok := kindSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("resource kind %q has no attribute schema", kind)
	}
	return schema, nil
}

// findAttr locates key in the kind's schema.
func findAttr(kind Kind, key string) (attrSpec, error) {
	schema, err := schemaOf(kind)
	if err != nil {
		return attrSpec{}, err
	}
	for _, spec := range schema {
		if spec.key == key {
			return spec, nil
		}
	}
	return attrSpec{}, &UnknownAttributeError{Kind: kind, Key: key}
}

// ExportedAttributeSet is the full named path set for one resource
// instance: attribute key → registry path. It is built once when the
// producing stack finishes its resource and never mutated afterward.
type ExportedAttributeSet struct {
	Kind  Kind
	Name  string
	Paths map[string]string
}

// Keys returns the attribute keys in sorted order.
func (s *ExportedAttributeSet) Keys() []string {
	keys := make([]string, 0, len(s.Paths))
	for k := range s.Paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Exporter builds attribute sets under one deployment namespace.
type Exporter struct {
	// Namespace is the fixed root namespace of the deployment environment.
	Namespace string
}

// AttributePath returns the registry path of a single attribute:
// /<namespace>/<kind>/<name>/<key>. Pure path construction, no I/O.
func (e Exporter) AttributePath(kind Kind, name, key string) string {
	return Path(e.Namespace, string(kind), name, key)
}

// ExportSet builds the full ExportedAttributeSet for one resource instance.
// Deterministic and side-effect free; the producing stack publishes each
// path as part of its own resource graph.
func (e Exporter) ExportSet(kind Kind, name string) (*ExportedAttributeSet, error) {
	if err := ValidateSegment(name); err != nil {
		return nil, fmt.Errorf("resource name for %s export: %w", kind, err)
	}
	schema, err := schemaOf(kind)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(schema))
	for _, spec := range schema {
		paths[spec.key] = e.AttributePath(kind, name, spec.key)
	}
	return &ExportedAttributeSet{Kind: kind, Name: name, Paths: paths}, nil
}
