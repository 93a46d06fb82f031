package stylist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrBlockedAddress is returned when an image URL points at a loopback,
// private, link-local or otherwise non-public address.
var ErrBlockedAddress = errors.New("blocked address")

// HTTPImageFetcher downloads product images for the recommender. Only http
// and https URLs on public addresses are fetched unless AllowPrivate is set.
type HTTPImageFetcher struct {
	Timeout      time.Duration
	MaxBytes     int
	AllowPrivate bool
}

func (f HTTPImageFetcher) Fetch(ctx context.Context, rawURL string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("fetch image: unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("fetch image: missing host")
	}

	timeout := f.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	a := fiber.Get(u.String()).Timeout(timeout)
	if a.HostClient != nil && !f.AllowPrivate {
		dialer := &net.Dialer{Timeout: timeout, Control: publicOnly}
		a.HostClient.Dial = func(addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", addr)
		}
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch image: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", code)
	}
	if len(body) == 0 {
		return nil, errors.New("fetch image: empty body")
	}
	if f.MaxBytes > 0 && len(body) > f.MaxBytes {
		return nil, fmt.Errorf("fetch image: %d bytes exceeds limit", len(body))
	}
	mime := http.DetectContentType(body)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("fetch image: unexpected content type %s", mime)
	}
	return &Image{Data: body, MIMEType: mime}, nil
}

// publicOnly runs after name resolution, so a hostname that resolves to an
// internal address is refused too.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !PublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// PublicIP reports whether ip is a globally routable unicast address.
func PublicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	}
	// carrier-grade NAT
	if v4 := ip.To4(); v4 != nil && v4[0] == 100 && v4[1]&0xc0 == 64 {
		return false
	}
	return true
}
