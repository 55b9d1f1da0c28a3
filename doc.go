// Package modtree runs trees of application modules that start together and
// stop together.
//
// The core lives in the unit package: leaves run load/unload hooks,
// composites start their children concurrently and stop them one by one, and
// the root container turns any startup failure into an ordered teardown of
// the whole tree followed by process exit. Supporting packages provide:
//
//   - logger   – leveled sink on top of zerolog
//   - manifest – declarative tree description (YAML, JSON, TOML)
//   - registry – named hook factories used by manifests
//   - notify   – readiness notification (systemd)
//
// Hosts typically interact through the Service façade:
//
//	srv, _ := modtree.New(modtree.WithConfig(cfg))
//	_, _ = srv.Assemble(ctx, "tree.yaml")
//	err := srv.Run(ctx)
package modtree
