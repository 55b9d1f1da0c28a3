// Package unit implements the module tree and its two-phase lifecycle.
//
// A tree is built from three kinds of units:
//
//   - Leaf      – runs user supplied Load/Unload hooks
//   - Composite – owns ordered children and its own hooks
//   - Root      – top-level composite owning shutdown wiring and the
//     failure handler that tears the whole tree down
//
// Init fans out concurrently: every child of a composite is started in its
// own goroutine while the composite runs its own Load hook, and the
// composite waits for all of them to settle before reporting a single
// outcome. Kill is sequential and destructive: children are torn down one by
// one in insertion order and removed, then the composite's own Unload runs.
//
// A failed Init is reported twice: as the returned *LoadError and as a
// "failed" signal delivered to the nearest ancestor whose Channel has a
// subscriber. The Root subscribes itself, so any failure ends in a full,
// ordered teardown.
//
//	root := unit.NewRoot(unit.WithExit(func(int) {}))
//	api := unit.NewComposite("api", apiHooks)
//	_ = api.Add(unit.NewLeaf("db", dbHooks))
//	_ = root.Add(api)
//	if err := root.Init(ctx); err != nil {
//		<-root.Done()
//	}
package unit
