package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP surface mounted by the router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
