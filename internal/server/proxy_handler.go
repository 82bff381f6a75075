package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/sm1l43s/movies/internal/proxy"
)

const maxProxyBodyBytes = 16 << 20

// hop-by-hop and framing headers the server recomputes itself.
var skippedResponseHeaders = map[string]struct{}{
	"Content-Length":    {},
	"Transfer-Encoding": {},
	"Connection":        {},
}

// proxyHandler relays /proxy/* to the upstream and mirrors its response.
func (a *API) proxyHandler(relay *proxy.Relay) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProxyBodyBytes))
		if err != nil {
			return fmt.Errorf("%w: read body: %v", ErrBadRequest, err)
		}

		resp, err := relay.Relay(r.Context(), body, r.Method, r)
		if err != nil {
			return err
		}

		for name, values := range resp.Header {
			if _, skip := skippedResponseHeaders[http.CanonicalHeaderKey(name)]; skip {
				continue
			}
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := w.Write(resp.Body); err != nil {
			a.log.WithError(err).Debug("proxy response write failed")
		}
		return nil
	}
}
