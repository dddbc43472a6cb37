package middleware

import (
	"github.com/gin-gonic/gin"
)

// TrustProxies sets which peers may supply X-Forwarded-For and X-Real-IP.
// An empty list trusts none, so the caller address is always RemoteAddr.
func TrustProxies(r *gin.Engine, proxies []string) error {
	if len(proxies) == 0 {
		return r.SetTrustedProxies(nil)
	}
	return r.SetTrustedProxies(proxies)
}

// ClientIP resolves the caller address; forwarding headers count only when
// the direct peer is a trusted proxy.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}
