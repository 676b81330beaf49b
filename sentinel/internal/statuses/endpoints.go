package statuses

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/apimachinery"
	"github.com/xeipuuv/gojsonschema"
)

type endpoints struct {
	*apimachinery.BaseEndpoints
	jobStatusSchemaLoader gojsonschema.JSONLoader
	watchSchemaLoader     gojsonschema.JSONLoader
	service               Service
}

func NewEndpoints(
	baseEndpoints *apimachinery.BaseEndpoints,
	service Service,
) apimachinery.Endpoints {
	return &endpoints{
		BaseEndpoints:         baseEndpoints,
		jobStatusSchemaLoader: gojsonschema.NewStringLoader(jobStatusSchema),
		watchSchemaLoader:     gojsonschema.NewStringLoader(watchSchema),
		service:               service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Record status
	router.HandleFunc(
		"/v2/jobs/{jobId}/statuses",
		e.TokenAuthFilter.Decorate(e.record),
	).Methods(http.MethodPost)

	// Get latest status
	router.HandleFunc(
		"/v2/jobs/{jobId}/status",
		e.TokenAuthFilter.Decorate(e.getLatest),
	).Methods(http.MethodGet)

	// Get status history
	router.HandleFunc(
		"/v2/jobs/{jobId}/statuses",
		e.TokenAuthFilter.Decorate(e.getHistory),
	).Methods(http.MethodGet)

	// Get lineage
	router.HandleFunc(
		"/v2/jobs/{jobId}/lineage",
		e.TokenAuthFilter.Decorate(e.getLineage),
	).Methods(http.MethodGet)

	// List latest statuses of all jobs
	router.HandleFunc(
		"/v2/statuses",
		e.TokenAuthFilter.Decorate(e.listLatest),
	).Methods(http.MethodGet)

	// Register watch
	router.HandleFunc(
		"/v2/watches",
		e.TokenAuthFilter.Decorate(e.watch),
	).Methods(http.MethodPost)
}

func (e *endpoints) record(w http.ResponseWriter, r *http.Request) {
	status := lwfm.JobStatus{}
	e.ServeRequest(
		apimachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: e.jobStatusSchemaLoader,
			ReqBodyObj:          &status,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Record(r.Context(), mux.Vars(r)["jobId"], status)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) getLatest(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.GetLatest(r.Context(), mux.Vars(r)["jobId"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) getHistory(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.GetHistory(r.Context(), mux.Vars(r)["jobId"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) getLineage(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.GetLineage(r.Context(), mux.Vars(r)["jobId"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) listLatest(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		apimachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.ListLatest(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) watch(w http.ResponseWriter, r *http.Request) {
	watch := lwfm.Watch{}
	e.ServeRequest(
		apimachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: e.watchSchemaLoader,
			ReqBodyObj:          &watch,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Watch(r.Context(), watch)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
