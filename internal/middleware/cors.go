package middleware

import "net/http"

// CORS sets the cross-origin headers the web client relies on and
// short-circuits preflight requests.
//
// The policy is intentionally permissive (any origin): the API is
// public and authentication is bearer-token based, not cookie based,
// so cross-site request forgery is not a concern here.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, PATCH, DELETE")
		h.Set("Access-Control-Allow-Headers", "X-Requested-With,content-type,Authorization")
		h.Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
