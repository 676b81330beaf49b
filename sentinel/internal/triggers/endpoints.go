package triggers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/apimachinery"
	"github.com/xeipuuv/gojsonschema"
)

type endpoints struct {
	*apimachinery.BaseEndpoints
	triggerSchemaLoader gojsonschema.JSONLoader
	service             Service
}

func NewEndpoints(
	baseEndpoints *apimachinery.BaseEndpoints,
	service Service,
) apimachinery.Endpoints {
	return &endpoints{
		BaseEndpoints:       baseEndpoints,
		triggerSchemaLoader: gojsonschema.NewStringLoader(triggerSchema),
		service:             service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Register trigger
	router.HandleFunc(
		"/v2/triggers",
		e.TokenAuthFilter.Decorate(e.create),
	).Methods(http.MethodPost)

	// List triggers
	router.HandleFunc(
		"/v2/triggers",
		e.TokenAuthFilter.Decorate(e.list),
	).Methods(http.MethodGet)

	// Unregister trigger
	router.HandleFunc(
		"/v2/triggers/{handlerId}",
		e.TokenAuthFilter.Decorate(e.delete),
	).Methods(http.MethodDelete)

	// Unregister all triggers
	router.HandleFunc(
		"/v2/triggers",
		e.TokenAuthFilter.Decorate(e.deleteAll),
	).Methods(http.MethodDelete)
}

func (e *endpoints) create(w http.ResponseWriter, r *http.Request) {
	trigger := lwfm.Trigger{}
	e.ServeRequest(
		apimachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: e.triggerSchemaLoader,
			ReqBodyObj:          &trigger,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Register(r.Context(), trigger)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (e *endpoints) list(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.List(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) delete(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Unregister(r.Context(), mux.Vars(r)["handlerId"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) deleteAll(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.UnregisterAll(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}
