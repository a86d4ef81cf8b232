package service

import (
	"context"

	"github.com/gymportal/portal/internal/api/dto"
	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/domain/user"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"github.com/samber/lo"
)

// CustomerService links portal users to processor customers
type CustomerService interface {
	// EnsureCustomer returns the caller's customer, creating and linking one
	// when the profile has none or the linked customer was deleted
	EnsureCustomer(ctx context.Context) (*dto.CustomerResponse, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{ServiceParams: params}
}

func (s *customerService) EnsureCustomer(ctx context.Context) (*dto.CustomerResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, ierr.NewError("missing caller").
			WithHint("Please sign in again").
			Mark(ierr.ErrUnauthorized)
	}

	u, err := s.UserRepo.EnsureProfile(ctx, user.NewUser(userID, types.GetUserEmail(ctx)))
	if err != nil {
		return nil, err
	}

	if existing := lo.FromPtr(u.StripeCustomerID); existing != "" {
		c, err := s.Gateway.GetCustomer(ctx, existing)
		switch {
		case err == nil && !c.Deleted:
			return &dto.CustomerResponse{CustomerID: c.ID, Email: u.Email}, nil
		case err != nil && !ierr.IsNotFound(err):
			return nil, err
		}
		s.Logger.Warnw("linked customer is gone, creating a new one",
			"user_id", userID,
			"customer_id", existing)
	}

	c, err := s.Gateway.CreateCustomer(ctx, processor.CustomerCreate{
		Email: u.Email,
		Name:  lo.FromPtr(u.FullName),
		Metadata: map[string]string{
			types.MetadataKeyUserID:         userID,
			types.MetadataKeySupabaseUserID: userID,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.SetStripeCustomerID(ctx, userID, c.ID); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixUserByCustomerID, c.ID))

	s.Logger.Infow("linked stripe customer",
		"user_id", userID,
		"customer_id", c.ID)
	return &dto.CustomerResponse{CustomerID: c.ID, Email: u.Email, Created: true}, nil
}
