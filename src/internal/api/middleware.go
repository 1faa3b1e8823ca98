package api

import (
	"mime"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/netinfo"
)

// JSONContentType middleware enforces JSON content type for requests with body.
func JSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength > 0 {
				if ct := r.Header.Get("Content-Type"); ct != "" {
					mediaType, _, err := mime.ParseMediaType(ct)
					if err != nil || mediaType != "application/json" {
						WriteInvalidRequest(w, "Content-Type must be application/json")
						return
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Logger middleware logs all HTTP requests.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		log.Infof("%s %s - %d (%v)", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// Metrics middleware counts requests by method and status code.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			m.ObserveAPIRequest(r.Method, strconv.Itoa(wrapped.statusCode))
		})
	}
}

// Recovery middleware recovers from panics and returns a 500 error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("Panic recovered: %v", err)
				WriteInternalError(w, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("::1/128"),
}

// PrivateSubnetOnly middleware restricts access to loopback and private
// networks. Only the socket peer address counts: forwarding headers are
// ignored since captive clients could set them freely.
//
// Peers inside the subnet of the gated interface are the captive clients
// themselves and are rejected, except for the gateway's own address.
// gated may be nil.
func PrivateSubnetOnly(gated func() *netinfo.InterfaceBinding) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := peerIP(r)

			ip, err := netip.ParseAddr(clientIP)
			if err != nil {
				log.Warnf("Invalid client IP: %s", clientIP)
				WriteForbidden(w, "Access denied")
				return
			}
			ip = ip.Unmap()

			if gated != nil {
				if lan, ok := clientSubnet(gated()); ok && lan.Contains(ip) && ip != lan.Addr() {
					log.Warnf("Access denied from gated client: %s", clientIP)
					WriteForbidden(w, "Access denied: gated clients may not use the control API")
					return
				}
			}

			for _, prefix := range privatePrefixes {
				if prefix.Contains(ip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warnf("Access denied from non-private IP: %s", clientIP)
			WriteForbidden(w, "Access denied: only private networks are allowed")
		})
	}
}

// clientSubnet returns the subnet of the gated interface. The prefix
// address is the gateway's own address, not the network address.
func clientSubnet(b *netinfo.InterfaceBinding) (netip.Prefix, bool) {
	if b == nil || !b.IP.IsValid() || !b.Mask.IsValid() {
		return netip.Prefix{}, false
	}
	ones, bits := net.IPMask(b.Mask.AsSlice()).Size()
	if bits == 0 {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(b.IP, ones), true
}

func peerIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
