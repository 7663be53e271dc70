// Package memstore is an in-memory persist.ConditionalStore that keeps
// entities in insertion order. It backs tests, demos and single-process
// deployments that can afford to lose state on restart.
//
//	store := memstore.New(
//	    memstore.Entry[int64, OrderState]{ID: 1, State: Placed},
//	    memstore.Entry[int64, OrderState]{ID: 2, State: Processing},
//	)
//	fmt.Println(store) // Entry [id=1, state=PLACED] ...
package memstore
