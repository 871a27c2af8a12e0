package main

import (
	"github.com/AshantiAI/hyperswitch-cdk/internal/param"
	"github.com/AshantiAI/hyperswitch-cdk/internal/stackdep"
)

// Stack names of the hyperswitch deployment, in no particular order; the
// graph decides sequencing.
const (
	stackNetwork   = "network"
	stackDatabase  = "database"
	stackCache     = "cache"
	stackRegistry  = "container-registry"
	stackMigration = "schema-migration"
	stackCompute   = "compute"
)

// instanceMain is the instance name shared by the singleton resources.
const instanceMain = "main"

// deploymentGraph declares the hyperswitch stacks, their dependency edges,
// and the registry paths each one produces and consumes. Resource
// provisioning itself is externally owned; what this graph fixes is the
// inter-stack data flow, so a consumer resolving a path nothing upstream
// publishes is rejected before any deployment starts.
//
// Build functions are attached by the caller (nil here keeps plan and
// check purely static).
func deploymentGraph(cfg *Config) (*stackdep.Graph, error) {
	exporter := param.Exporter{Namespace: cfg.Namespace}

	vpc, err := exporter.ExportSet(param.KindVPC, instanceMain)
	if err != nil {
		return nil, err
	}
	rds, err := exporter.ExportSet(param.KindRDS, instanceMain)
	if err != nil {
		return nil, err
	}
	cache, err := exporter.ExportSet(param.KindElastiCache, instanceMain)
	if err != nil {
		return nil, err
	}
	ecr, err := exporter.ExportSet(param.KindECR, instanceMain)
	if err != nil {
		return nil, err
	}

	g := stackdep.NewGraph()
	stacks := []*stackdep.Stack{
		{
			Name:     stackNetwork,
			Provides: []string{setPrefix(cfg, param.KindVPC)},
		},
		{
			Name:      stackDatabase,
			DependsOn: []string{stackNetwork},
			Provides:  []string{setPrefix(cfg, param.KindRDS)},
			Requires: []string{
				vpc.Paths[param.AttrVPCID],
				vpc.Paths[param.AttrIsolatedSubnetIDs],
			},
		},
		{
			Name:      stackCache,
			DependsOn: []string{stackNetwork},
			Provides:  []string{setPrefix(cfg, param.KindElastiCache)},
			Requires: []string{
				vpc.Paths[param.AttrVPCID],
				vpc.Paths[param.AttrPrivateSubnetIDs],
			},
		},
		{
			Name:     stackRegistry,
			Provides: []string{setPrefix(cfg, param.KindECR)},
		},
		{
			Name:      stackMigration,
			DependsOn: []string{stackDatabase},
			Provides:  []string{setPrefix(cfg, param.KindFunction)},
			Requires: []string{
				rds.Paths[param.AttrDBSecretARN],
			},
		},
		{
			Name:      stackCompute,
			DependsOn: []string{stackMigration, stackCache, stackRegistry},
			Requires: []string{
				vpc.Paths[param.AttrVPCID],
				vpc.Paths[param.AttrPrivateSubnetIDs],
				rds.Paths[param.AttrDBHost],
				rds.Paths[param.AttrDBPort],
				rds.Paths[param.AttrDBName],
				rds.Paths[param.AttrDBSecurityGroupID],
				cache.Paths[param.AttrCacheHost],
				cache.Paths[param.AttrCachePort],
				ecr.Paths[param.AttrRepositoryURI],
			},
		},
	}
	for _, s := range stacks {
		if err := g.Add(s); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// setPrefix is the Provides prefix covering every attribute of a kind's
// main instance.
func setPrefix(cfg *Config, kind param.Kind) string {
	return param.Path(cfg.Namespace, string(kind), instanceMain)
}
