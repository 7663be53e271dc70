// Package handler adapts small response-returning functions to net/http.
//
// A HandlerFunc receives the request and returns a Response; Wrap renders it
// and routes render failures to an ErrorHandler:
//
//	func listOrders(r *http.Request) handler.Response {
//		items, err := store.List(r.Context())
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(items, handler.WithJSONMeta(map[string]any{"count": len(items)}))
//	}
//
//	router.Get("/orders", handler.Wrap(listOrders))
//
// # Responses
//
// JSON bodies share one envelope, JSONResponse, with data, meta and error
// members. JSONError accepts either an error or a prepared *ErrorDetail. An
// HTTPError keeps its status code and key; any other error becomes a 500
// with the "internal_error" code.
//
// Text writes a raw body, for example a Graphviz document:
//
//	handler.Text(dot, handler.WithContentType("text/vnd.graphviz"))
package handler
