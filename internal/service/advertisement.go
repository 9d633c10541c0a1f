package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/querycache"
	"github.com/cayiba/cayiba-admin/internal/table"
)

// Query cache scopes of the advertisement screens.
const (
	ScopeAdvertisements = "advertisements"
	ScopeAdvertisement  = "advertisement"
)

// StatusParam is the console and API parameter of the status filter.
const StatusParam = "status"

// AdvertisementAPI is the part of the classifieds API that moderates
// advertisements.
type AdvertisementAPI interface {
	ListAdvertisements(ctx context.Context, params url.Values, status string) (model.TableResponse[model.Advertisement], error)
	GetAdvertisement(ctx context.Context, id string) (model.AdvertisementDetail, error)
	BlockAdvertisement(ctx context.Context, id string) (string, error)
}

// AdvertisementService lists, shows and blocks advertisements.
type AdvertisementService struct {
	api AdvertisementAPI
	log *slog.Logger
}

// NewAdvertisementService creates a new AdvertisementService.
func NewAdvertisementService(api AdvertisementAPI, log *slog.Logger) *AdvertisementService {
	return &AdvertisementService{api: api, log: log}
}

// List fetches one page of advertisements with the status filter of p.
func (s *AdvertisementService) List(ctx context.Context, p table.Params) (model.TableResponse[model.Advertisement], error) {
	return s.api.ListAdvertisements(ctx, p.Values(), p.Filter(StatusParam))
}

// Get returns the advertisement id through cache. It waits for the fetch.
func (s *AdvertisementService) Get(ctx context.Context, cache *querycache.Cache, id string) (model.AdvertisementDetail, error) {
	res := querycache.Query(ctx, cache, querycache.NewKey(ScopeAdvertisement, id), 0,
		func(ctx context.Context) (model.AdvertisementDetail, error) {
			return s.api.GetAdvertisement(ctx, id)
		})
	return res.Data, res.Err
}

// Block blocks the advertisement id. On success the cached detail of id and
// the cached list pages are dropped so the next read shows the new status.
func (s *AdvertisementService) Block(ctx context.Context, cache *querycache.Cache, id string) (string, error) {
	msg, err := s.api.BlockAdvertisement(ctx, id)
	if err != nil {
		return "", err
	}
	cache.Invalidate(ScopeAdvertisement, id)
	cache.Invalidate(ScopeAdvertisements)
	s.log.Info("advertisement blocked", "id", id)
	return msg, nil
}
