package storage

import (
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// carrier-grade NAT, not covered by netip.Addr.IsPrivate
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

const maxRedirects = 5

// PublicAddr reports whether a is routable on the public internet.
func PublicAddr(a netip.Addr) bool {
	a = a.Unmap()
	switch {
	case !a.IsValid(),
		a.IsUnspecified(),
		a.IsLoopback(),
		a.IsPrivate(),
		a.IsLinkLocalUnicast(),
		a.IsLinkLocalMulticast(),
		a.IsInterfaceLocalMulticast(),
		a.IsMulticast(),
		sharedAddressSpace.Contains(a):
		return false
	}
	return true
}

func publicOnly(ap netip.AddrPort) bool { return PublicAddr(ap.Addr()) }

// guardedClient checks every dialed address after DNS resolution, so
// redirects and names that resolve to internal hosts are refused too.
func guardedClient(timeout time.Duration, allow func(netip.AddrPort) bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			ap, err := netip.ParseAddrPort(address)
			if err != nil {
				return eris.Wrapf(screening.ErrInvalidVideo, "unparseable address %s", address)
			}
			if !allow(ap) {
				return eris.Wrapf(screening.ErrInvalidVideo, "refusing to connect to %s", address)
			}
			return nil
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return eris.Wrapf(screening.ErrInvalidVideo, "stopped after %d redirects", maxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return eris.Wrapf(screening.ErrInvalidVideo, "redirect to %s scheme", req.URL.Scheme)
			}
			return nil
		},
	}
}
