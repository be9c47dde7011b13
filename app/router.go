package app

import (
	"fmt"
	"regexp"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

// isPath ensures route paths stay in a safe character set. Message paths
// follow the "<extension>/<operation>" convention.
var isPath = regexp.MustCompile(`^[a-z0-9_/]{4,40}$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the proper handler.
type Router struct {
	routes map[string]msig.Handler
}

var _ msig.Registry = Router{}
var _ msig.Handler = Router{}

// NewRouter initializes a router with no routes.
func NewRouter() Router {
	return Router{
		routes: make(map[string]msig.Handler, 10),
	}
}

// Handle adds a new Handler for the path of the given message. Panics on
// invalid path or on duplicate registration, as both are programmer
// errors.
func (r Router) Handle(m msig.Msg, h msig.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPathHandler that errors on all operations.
func (r Router) Handler(path string) msig.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path: path}
	}
	return h
}

// Check dispatches to the proper handler based on the message path.
func (r Router) Check(ctx msig.Context, store msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r Router) Deliver(ctx msig.Context, store msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ msig.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(msig.Context, msig.KVStore, msig.Tx) (*msig.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path: %s", h.path)
}

func (h noSuchPathHandler) Deliver(msig.Context, msig.KVStore, msig.Tx) (*msig.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path: %s", h.path)
}
