// Package ollafree queries the bundled directory of public Ollama servers
// and sends generation requests to them, moving on to another server
// hosting the same model when one fails.
//
// The bundled metadata is sample data: every address is in a
// documentation-only range (192.0.2.0/24, 198.51.100.0/24, 203.0.113.0/24),
// so Chat and StreamChat against it always fail. Point the client at a
// real server list with WithMetadataDir, or the metadata.dir config key
// (OLLAFREE_METADATA_DIR), before generating.
//
//	client, err := ollafree.New(ollafree.WithMetadataDir("./ollama_json"))
//	if err != nil {
//		return err
//	}
//	reply, err := client.Chat(ctx, "llama3.2:3b", "Why is the sky blue?", ollafree.Options{})
package ollafree

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"

	"github.com/thushan/ollafree/internal/adapter/balancer"
	"github.com/thushan/ollafree/internal/adapter/directory"
	"github.com/thushan/ollafree/internal/adapter/dispatch"
	"github.com/thushan/ollafree/internal/adapter/factory"
	"github.com/thushan/ollafree/internal/adapter/metadata"
	"github.com/thushan/ollafree/internal/adapter/request"
	"github.com/thushan/ollafree/internal/adapter/stats"
	"github.com/thushan/ollafree/internal/config"
	"github.com/thushan/ollafree/internal/core/domain"
	"github.com/thushan/ollafree/internal/core/ports"
	"github.com/thushan/ollafree/internal/logger"
)

type (
	ModelRecord       = domain.ModelRecord
	ServerDescriptor  = domain.ServerDescriptor
	Location          = domain.Location
	Performance       = domain.Performance
	Options           = domain.Options
	GenerationRequest = domain.GenerationRequest
	DispatchStats     = ports.DispatchStats
	ServerStats       = ports.ServerStats

	GenerateClient   = ports.GenerateClient
	ClientFactory    = ports.ClientFactory
	CandidateOrderer = ports.CandidateOrderer

	ModelNotFoundError      = domain.ModelNotFoundError
	ServerNotFoundError     = domain.ServerNotFoundError
	NoServersAvailableError = domain.NoServersAvailableError
	AllServersFailedError   = domain.AllServersFailedError
	PartialStreamError      = domain.PartialStreamError
)

var (
	ErrModelNotFound      = domain.ErrModelNotFound
	ErrServerNotFound     = domain.ErrServerNotFound
	ErrNoServersAvailable = domain.ErrNoServersAvailable
	ErrAllServersFailed   = domain.ErrAllServersFailed
	ErrPartialStream      = domain.ErrPartialStream
)

// OptionsFromMap converts loosely typed options, ignoring unknown keys.
func OptionsFromMap(values map[string]any) (Options, error) {
	return domain.OptionsFromMap(values)
}

// Client is safe for concurrent use once constructed.
type Client struct {
	store      *metadata.Store
	directory  *directory.Directory
	dispatcher *dispatch.Dispatcher
	stats      *stats.Collector
	orderer    ports.CandidateOrderer
	logger     logger.StyledLogger
}

type settings struct {
	cfg      *config.Config
	logger   logger.StyledLogger
	metaFS   fs.FS
	metaDir  string
	clients  ports.ClientFactory
	orderer  ports.CandidateOrderer
	strategy string
}

type Option func(*settings)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *settings) { s.logger = logger.NewPlainStyledLogger(log) }
}

func WithStyledLogger(log logger.StyledLogger) Option {
	return func(s *settings) { s.logger = log }
}

// WithMetadataDir reads metadata from an on-disk directory instead of the
// bundled copy.
func WithMetadataDir(dir string) Option {
	return func(s *settings) {
		s.metaFS = nil
		s.metaDir = dir
	}
}

// WithMetadataFS reads metadata from dir within fsys.
func WithMetadataFS(fsys fs.FS, dir string) Option {
	return func(s *settings) {
		s.metaFS = fsys
		s.metaDir = dir
	}
}

// WithClientFactory replaces the HTTP client factory, mostly for tests.
func WithClientFactory(clients ClientFactory) Option {
	return func(s *settings) { s.clients = clients }
}

func WithOrderer(orderer CandidateOrderer) Option {
	return func(s *settings) { s.orderer = orderer }
}

// WithStrategy picks a registered ordering strategy by name
// ("shuffle" or "sequential").
func WithStrategy(name string) Option {
	return func(s *settings) { s.strategy = name }
}

// New loads the metadata and wires the dispatcher. It does not contact
// any server.
func New(opts ...Option) (*Client, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.logger == nil {
		s.logger = logger.NewDiscard()
	}
	if s.metaDir == "" && s.metaFS == nil {
		s.metaDir = s.cfg.Metadata.Dir
	}

	store, err := loadStore(s)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	orderer := s.orderer
	if orderer == nil {
		strategy := s.strategy
		if strategy == "" {
			strategy = s.cfg.Dispatch.Strategy
		}
		if orderer, err = balancer.NewFactory().Create(strategy); err != nil {
			return nil, err
		}
	}

	clients := s.clients
	if clients == nil {
		clients = factory.NewSharedClientFactory(s.cfg.Client)
	}

	dir := directory.New(store)
	builder := request.NewBuilder(dir, request.DefaultsFromConfig(s.cfg.Generation))
	collector := stats.NewCollector(s.logger)

	return &Client{
		store:      store,
		directory:  dir,
		dispatcher: dispatch.NewDispatcher(dir, builder, clients, orderer, collector, s.logger),
		stats:      collector,
		orderer:    orderer,
		logger:     s.logger,
	}, nil
}

func loadStore(s *settings) (*metadata.Store, error) {
	switch {
	case s.metaFS != nil:
		return metadata.Load(s.metaFS, s.metaDir, s.logger)
	case s.metaDir != "":
		return metadata.LoadDir(s.metaDir, s.logger)
	default:
		return metadata.LoadBundled(s.logger)
	}
}

// ListFamilies returns the metadata category names.
func (c *Client) ListFamilies() []string {
	return c.directory.ListFamilies()
}

// ListModels lists model names whose family matches family
// case-insensitively, or every model when family is empty. A model hosted
// on several servers is listed once per server.
func (c *Client) ListModels(family string) []string {
	return c.directory.ListModels(family)
}

func (c *Client) ListModelsByCategory(category string) []string {
	return c.directory.ListModelsByCategory(category)
}

func (c *Client) GetModelInfo(name string) (ModelRecord, error) {
	return c.directory.GetModelInfo(name)
}

func (c *Client) GetModelServers(name string) []ServerDescriptor {
	return c.directory.GetModelServers(name)
}

// GetServerInfo returns the server at address hosting name, or the first
// one when address is empty.
func (c *Client) GetServerInfo(name, address string) (ServerDescriptor, error) {
	return c.directory.GetServerInfo(name, address)
}

func (c *Client) GenerateRequestPayload(model, prompt string, opts Options) (GenerationRequest, error) {
	return c.dispatcher.GenerateRequestPayload(model, prompt, opts)
}

func (c *Client) Chat(ctx context.Context, model, prompt string, opts Options) (string, error) {
	return c.dispatcher.Chat(ctx, model, prompt, opts)
}

// StreamChat yields response chunks as they arrive. A non-nil error is
// always the last element.
func (c *Client) StreamChat(ctx context.Context, model, prompt string, opts Options) iter.Seq2[string, error] {
	return c.dispatcher.StreamChat(ctx, model, prompt, opts)
}

// Stats reports attempts made by this client so far.
func (c *Client) Stats() DispatchStats {
	return c.stats.GetDispatchStats()
}

// AttemptedServers lists, sorted, the addresses this client has sent
// requests to. Use it to walk Stats().Servers in a stable order.
func (c *Client) AttemptedServers() []string {
	return c.stats.ServerAddresses()
}

func (c *Client) Strategy() string {
	return c.orderer.Name()
}
