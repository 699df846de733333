// Package wsrouter runs a per-connection dispatch loop over websocket
// messages framed as {"type": string, "payload": json}. Handlers declare a
// typed payload; the router unmarshals each inbound payload into a fresh
// value of that type before calling the handler.
package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc is the shape every registered handler must have, with T being
// the handler's payload type.
type HandlerFunc[T any] func(ctx context.Context, conn *Conn, payload T) error

// Middleware wraps the dispatch of a single message. The payload is opaque
// at this level; middlewares observe and pass it through.
type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

type route struct {
	payloadType reflect.Type
	handler     reflect.Value
}

type WSRouter struct {
	routes      map[string]route
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]route)}
}

func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

var (
	ctxType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	connType = reflect.TypeOf((*Conn)(nil))
	errType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Handle registers handler for messageType. handler must be a
// func(context.Context, *Conn, T) error; anything else panics at
// registration time.
func (r *WSRouter) Handle(messageType string, handler any) {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func ||
		t.NumIn() != 3 || t.NumOut() != 1 ||
		t.In(0) != ctxType || t.In(1) != connType || t.Out(0) != errType {
		panic(fmt.Sprintf("wsrouter: handler for %q must be func(context.Context, *Conn, T) error", messageType))
	}

	r.routes[messageType] = route{
		payloadType: t.In(2),
		handler:     reflect.ValueOf(handler),
	}
}

// ServeConn reads messages until the connection errors, dispatching each one
// to completion before reading the next. Handler errors do not stop the
// loop; they are surfaced to middlewares only.
func (r *WSRouter) ServeConn(ctx context.Context, conn *Conn) error {
	defer conn.Close()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		rt, ok := r.routes[msg.Type]
		if !ok {
			conn.WriteJSON(map[string]string{"error": "unknown message type"})
			continue
		}

		r.dispatch(ctx, conn, rt, &msg)
	}
}

func (r *WSRouter) dispatch(ctx context.Context, conn *Conn, rt route, msg *inbound) {
	payload := reflect.New(rt.payloadType)
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, payload.Interface()); err != nil {
			conn.WriteJSON(map[string]string{"error": fmt.Sprintf("malformed %q payload", msg.Type)})
			return
		}
	}

	h := func(ctx context.Context, conn *Conn, p any) error {
		out := rt.handler.Call([]reflect.Value{
			reflect.ValueOf(ctx),
			reflect.ValueOf(conn),
			reflect.ValueOf(p),
		})
		if err, ok := out[0].Interface().(error); ok && err != nil {
			return err
		}

		return nil
	}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)
	h(ctx, conn, payload.Elem().Interface())
}
