package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Route patterns.
const (
	SearchPath  = "/api/v1/orgs/{org}/search"
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// Options configures Handler.
type Options struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// wrapper binds request parameters before invoking the Server.
type wrapper struct {
	server           *Server
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Search binds {org}, q and limit.
func (siw *wrapper) Search(w http.ResponseWriter, r *http.Request) {
	var org string
	err := runtime.BindStyledParameterWithOptions("simple", "org", chi.URLParam(r, "org"), &org,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "org", Err: err})
		return
	}

	var params SearchParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.server.Search(w, r, org, params)
}

// Handler mounts the API routes on opts.BaseRouter (a new router when nil).
func Handler(s *Server, opts Options) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = BadRequestHandler
	}
	siw := &wrapper{server: s, errorHandlerFunc: opts.ErrorHandlerFunc}

	r.Get(SearchPath, siw.Search)
	r.Get(HealthPath, s.HealthCheck)
	r.Get(MetricsPath, s.Metrics)
	return r
}

// BadRequestHandler answers parameter binding failures with a generic 400.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request")
}
