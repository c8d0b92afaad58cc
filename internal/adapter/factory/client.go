package factory

import (
	"net"
	"net/http"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/ollafree/internal/config"
	"github.com/thushan/ollafree/internal/core/ports"
	"github.com/thushan/ollafree/internal/util"
)

const (
	TLSHandshakeTimeout = 10 * time.Second
	KeepAlive           = 30 * time.Second
)

// SharedClientFactory owns the single HTTP client used for every Ollama
// server and hands out one *api.Client per address, built on first use.
type SharedClientFactory struct {
	httpClient *http.Client
	clients    *xsync.Map[string, *api.Client]
}

// NewSharedClientFactory builds the transport once. ResponseTimeout bounds
// the wait for response headers only, so long streams are not cut off.
func NewSharedClientFactory(cfg config.ClientConfig) *SharedClientFactory {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectionTimeout,
		KeepAlive: KeepAlive,
	}

	sharedTransport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseTimeout,
		DisableCompression:    false,
	}

	return NewSharedClientFactoryWithHTTP(&http.Client{Transport: sharedTransport})
}

// NewSharedClientFactoryWithHTTP uses an existing client, mostly for tests.
func NewSharedClientFactoryWithHTTP(httpClient *http.Client) *SharedClientFactory {
	return &SharedClientFactory{
		httpClient: httpClient,
		clients:    xsync.NewMap[string, *api.Client](),
	}
}

// ForServer returns the client for address. Concurrent callers asking for
// the same address get the same client.
func (f *SharedClientFactory) ForServer(address string) (ports.GenerateClient, error) {
	if c, ok := f.clients.Load(address); ok {
		return c, nil
	}

	base, err := util.ServerBaseURL(address)
	if err != nil {
		return nil, err
	}

	c, _ := f.clients.LoadOrCompute(address, func() (*api.Client, bool) {
		return api.NewClient(base, f.httpClient), false
	})
	return c, nil
}
