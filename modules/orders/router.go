package orders

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/persistfsm/handler"
	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// RouterOptions configures the orders router. Handler and Catalog are required.
type RouterOptions struct {
	Handler    *Handler
	Catalog    Catalog
	Feed       *Feed
	Logger     *slog.Logger
	BatchLimit int
}

// Router exposes the order lifecycle over HTTP:
//
//	GET  /                    list orders with their permitted events
//	GET  /graph               Graphviz rendering of the lifecycle
//	GET  /changes             server-sent events of committed changes (needs Feed)
//	POST /events/{event}      apply event to {"ids": [...]}
//	GET  /{id}                one order
//	POST /{id}/events/{event} apply event to one order; optional JSON body is passed as data
//
// Mount it under a prefix:
//
//	r := chi.NewRouter()
//	r.Mount("/orders", orders.Router(orders.RouterOptions{Handler: h, Catalog: c}))
func Router(opts RouterOptions) chi.Router {
	if opts.Handler == nil {
		panic("orders: nil handler")
	}
	if opts.Catalog == nil {
		panic("orders: nil catalog")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rt := &routes{
		handler:    opts.Handler,
		catalog:    opts.Catalog,
		feed:       opts.Feed,
		engine:     statemachine.NewEngine(opts.Handler.Definition()),
		log:        log.With(logger.Component("orders")),
		batchLimit: opts.BatchLimit,
	}
	wrap := func(h handler.HandlerFunc) http.HandlerFunc {
		return handler.Wrap(h, handler.WithErrorHandler(handler.LoggingErrorHandler(rt.log)))
	}

	r := chi.NewRouter()
	r.Get("/", wrap(rt.list))
	r.Get("/graph", wrap(rt.graph))
	r.Get("/changes", wrap(rt.changes))
	r.Post("/events/{event}", wrap(rt.applyBatch))
	r.Get("/{id}", wrap(rt.get))
	r.Post("/{id}/events/{event}", wrap(rt.apply))
	return r
}

type routes struct {
	handler    *Handler
	catalog    Catalog
	feed       *Feed
	engine     *statemachine.Engine[State, Event]
	log        *slog.Logger
	batchLimit int
}

func (rt *routes) list(r *http.Request) handler.Response {
	items, err := rt.catalog.List(r.Context())
	if err != nil {
		rt.log.ErrorContext(r.Context(), "failed to list orders", logger.Error(err))
		return errorResponse(err)
	}
	for i := range items {
		items[i].Permitted = rt.engine.PermittedEvents(r.Context(), items[i].State, nil)
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{"count": len(items)}))
}

func (rt *routes) graph(*http.Request) handler.Response {
	return handler.Text(
		statemachine.ToDOT(rt.handler.Definition()),
		handler.WithContentType("text/vnd.graphviz; charset=utf-8"),
	)
}

func (rt *routes) changes(*http.Request) handler.Response {
	if rt.feed == nil {
		return errorResponse(handler.ErrNotFound)
	}
	return changeStream{feed: rt.feed}
}

func (rt *routes) get(r *http.Request) handler.Response {
	id, err := orderID(r)
	if err != nil {
		return errorResponse(err)
	}
	state, err := rt.handler.State(r.Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return handler.JSON(Order{
		ID:        id,
		State:     state,
		Permitted: rt.engine.PermittedEvents(r.Context(), state, nil),
	})
}

func (rt *routes) apply(r *http.Request) handler.Response {
	id, err := orderID(r)
	if err != nil {
		return errorResponse(err)
	}
	data, err := decodeData(r)
	if err != nil {
		return errorResponse(err)
	}
	event := Event(chi.URLParam(r, "event"))

	state, err := rt.handler.Apply(r.Context(), id, event, data)
	if err != nil {
		return errorResponse(err)
	}
	return handler.JSON(Order{
		ID:        id,
		State:     state,
		Permitted: rt.engine.PermittedEvents(r.Context(), state, nil),
	})
}

type batchRequest struct {
	IDs  []int64 `json:"ids"`
	Data any     `json:"data,omitempty"`
}

type batchItem struct {
	ID    int64                `json:"id"`
	State State                `json:"state,omitempty"`
	Error *handler.ErrorDetail `json:"error,omitempty"`
}

func (rt *routes) applyBatch(r *http.Request) handler.Response {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		return errorResponse(ErrInvalidPayload)
	}
	event := Event(chi.URLParam(r, "event"))

	results, err := rt.handler.ApplyAll(r.Context(), req.IDs, event, req.Data, rt.batchLimit)
	if err != nil {
		rt.log.WarnContext(r.Context(), "batch apply interrupted", logger.Event(event), logger.Error(err))
	}

	items := make([]batchItem, 0, len(results))
	failed := 0
	for _, res := range results {
		item := batchItem{ID: res.ID, State: res.State}
		if res.Err != nil {
			_, item.Error = describe(res.Err)
			failed++
		}
		items = append(items, item)
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{
		"applied": len(items) - failed,
		"failed":  failed,
	}))
}

func orderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidOrderID
	}
	return id, nil
}

// decodeData reads an optional JSON body. An empty body means no data.
func decodeData(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	var data any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, ErrInvalidPayload
	}
	return data, nil
}
