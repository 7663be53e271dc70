// Package orders is a small order-lifecycle service built on persist.
//
// The lifecycle is declared in an embedded YAML document:
//
//	PLACED -process-> PROCESSING -send-> SENT -deliver-> DELIVERED
//
// Orders are int64 ids whose state lives in whichever store the Config
// selects (memory, postgres, redis or mongo). Router exposes listing,
// inspection, single and batch event application, and a Graphviz view of
// the lifecycle. Handler errors map to HTTP statuses: unknown orders are
// 404, rejected transitions and concurrent updates are 409, vetoed changes
// are 422 and storage failures are 503.
package orders
