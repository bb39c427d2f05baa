package enrich

import (
	"context"
	"net"
)

// MXResolver looks up mail-exchange records for a domain. The net.Resolver
// implementation is swapped for a fake in tests.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

type netResolver struct {
	r *net.Resolver
}

// NewNetResolver returns an MXResolver backed by the system DNS resolver.
func NewNetResolver() MXResolver {
	return &netResolver{r: net.DefaultResolver}
}

func (n *netResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return n.r.LookupMX(ctx, domain)
}
