package directory

import (
	"github.com/thushan/ollafree/internal/adapter/metadata"
	"github.com/thushan/ollafree/internal/core/domain"
)

// Directory answers model and server queries over a loaded metadata store.
// Every query is a linear scan; the store is small and immutable.
type Directory struct {
	store *metadata.Store
}

func New(store *metadata.Store) *Directory {
	return &Directory{store: store}
}

// ListFamilies returns the category names. The name is kept from the
// public API even though these are categories, not family keys.
func (d *Directory) ListFamilies() []string {
	return d.store.Categories()
}

// ListModels returns every model name whose family key matches family
// case-insensitively, across all categories. An empty family lists every
// model. Names hosted on several servers appear once per server.
func (d *Directory) ListModels(family string) []string {
	return d.store.Families().Models(d.store.Categories(), family)
}

// ListModelsByCategory returns the model names of one category in file order.
func (d *Directory) ListModelsByCategory(category string) []string {
	records := d.store.Records(category)
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names
}

func (d *Directory) GetModelInfo(name string) (domain.ModelRecord, error) {
	for _, category := range d.store.Categories() {
		for _, rec := range d.store.Records(category) {
			if rec.Name == name {
				return rec, nil
			}
		}
	}
	return domain.ModelRecord{}, &domain.ModelNotFoundError{Model: name}
}

// GetModelServers returns one descriptor per record hosting name, in load
// order. An unknown model yields an empty slice.
func (d *Directory) GetModelServers(name string) []domain.ServerDescriptor {
	servers := make([]domain.ServerDescriptor, 0)
	for _, category := range d.store.Categories() {
		for _, rec := range d.store.Records(category) {
			if rec.Name == name {
				servers = append(servers, rec.Server())
			}
		}
	}
	return servers
}

// GetServerInfo returns the server at address hosting name, or the first
// server when address is empty.
func (d *Directory) GetServerInfo(name, address string) (domain.ServerDescriptor, error) {
	servers := d.GetModelServers(name)
	if len(servers) == 0 {
		return domain.ServerDescriptor{}, &domain.ModelNotFoundError{Model: name}
	}
	if address == "" {
		return servers[0], nil
	}
	for _, s := range servers {
		if s.URL == address {
			return s, nil
		}
	}
	return domain.ServerDescriptor{}, &domain.ServerNotFoundError{Model: name, Address: address}
}
