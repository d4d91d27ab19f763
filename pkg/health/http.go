package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler answers 200 for as long as the process can serve.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks per request and answers 503 when any fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	r := newRunner(opts)
	return func(w http.ResponseWriter, req *http.Request) {
		resp, err := r.run(req.Context(), checks)
		for name, c := range resp.Checks {
			c.Error = ""
			resp.Checks[name] = c
		}
		code := http.StatusOK
		if err != nil {
			code = http.StatusServiceUnavailable
		}
		respond(w, code, resp)
	}
}

func respond(w http.ResponseWriter, code int, body *Response) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
