package service

import (
	"context"
	"net/url"

	"github.com/cayiba/cayiba-admin/internal/crypto"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/querycache"
	"github.com/cayiba/cayiba-admin/internal/table"
)

// ScopeSubAdmins is the query cache scope of the sub-admin list.
const ScopeSubAdmins = "sub-admins"

// SubAdminAPI is the part of the classifieds API that manages sub-admins.
type SubAdminAPI interface {
	ListSubAdmins(ctx context.Context, params url.Values) (model.TableResponse[model.SubAdmin], error)
	CreateSubAdmin(ctx context.Context, req model.CreateSubAdminRequest) (model.CreatedSubAdmin, error)
}

// SubAdminService lists and creates sub-administrators.
type SubAdminService struct {
	api SubAdminAPI
}

// NewSubAdminService creates a new SubAdminService.
func NewSubAdminService(api SubAdminAPI) *SubAdminService {
	return &SubAdminService{api: api}
}

// List fetches one page of sub-admins.
func (s *SubAdminService) List(ctx context.Context, p table.Params) (model.TableResponse[model.SubAdmin], error) {
	return s.api.ListSubAdmins(ctx, p.Values())
}

// Create creates a sub-admin and drops the cached list pages so the new
// account shows up on the next read.
func (s *SubAdminService) Create(ctx context.Context, cache *querycache.Cache, req model.CreateSubAdminRequest) (model.CreatedSubAdmin, error) {
	created, err := s.api.CreateSubAdmin(ctx, req)
	if err != nil {
		return model.CreatedSubAdmin{}, err
	}
	cache.Invalidate(ScopeSubAdmins)
	return created, nil
}

// SuggestPassword returns a generated password that passes the sub-admin
// password policy.
func (s *SubAdminService) SuggestPassword() (string, error) {
	for {
		password, err := crypto.SuggestPassword()
		if err != nil {
			return "", err
		}
		if crypto.CheckPasswordPolicy(password) == nil {
			return password, nil
		}
	}
}
