package service

import (
	"context"

	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/domain/processor"
	"github.com/gymportal/portal/internal/types"
)

// IdentityResolver attributes processor objects to portal users
type IdentityResolver interface {
	// ResolveUserID tries object metadata, then the customer's metadata, then
	// the user linked to that customer. Lookup failures fall through to the
	// next step; ok is false when every step missed.
	ResolveUserID(ctx context.Context, obj processor.Attributable) (userID string, ok bool)

	// ResolveUserIDForWebhook also looks the raw customer id up in the user
	// store when the customer itself could not be fetched
	ResolveUserIDForWebhook(ctx context.Context, obj processor.Attributable) (userID string, ok bool)
}

type identityResolver struct {
	ServiceParams
}

func NewIdentityResolver(params ServiceParams) IdentityResolver {
	return &identityResolver{ServiceParams: params}
}

func (r *identityResolver) ResolveUserID(ctx context.Context, obj processor.Attributable) (string, bool) {
	return r.resolve(ctx, obj, false)
}

func (r *identityResolver) ResolveUserIDForWebhook(ctx context.Context, obj processor.Attributable) (string, bool) {
	return r.resolve(ctx, obj, true)
}

func (r *identityResolver) resolve(ctx context.Context, obj processor.Attributable, directLookup bool) (string, bool) {
	if obj == nil {
		return "", false
	}

	if id := userIDFromMetadata(obj.GetMetadata()); id != "" {
		return id, true
	}

	customerID := obj.GetCustomerID()
	if customerID == "" {
		return "", false
	}

	customer, err := r.getCustomer(ctx, customerID)
	if err != nil {
		r.Logger.Warnw("could not fetch customer for attribution",
			"customer_id", customerID,
			"error", err)
	}

	if customer != nil && !customer.Deleted {
		if id := userIDFromMetadata(customer.Metadata); id != "" {
			return id, true
		}
	}

	if customer != nil || directLookup {
		if id := r.lookupByCustomerID(ctx, customerID); id != "" {
			return id, true
		}
	}

	r.Logger.Warnw("could not attribute processor object to a user",
		"customer_id", customerID,
		"customer_fetched", customer != nil)
	return "", false
}

func userIDFromMetadata(md map[string]string) string {
	return types.Metadata(md).FirstOf(types.MetadataKeyUserID, types.MetadataKeySupabaseUserID)
}

// getCustomer reads through a short-lived cache so a burst of events for one
// customer costs a single processor call
func (r *identityResolver) getCustomer(ctx context.Context, customerID string) (*processor.Customer, error) {
	key := cache.GenerateKey(cache.PrefixStripeCustomer, customerID)
	if v, ok := r.Cache.Get(ctx, key); ok {
		if c, ok := v.(*processor.Customer); ok {
			return c, nil
		}
	}

	c, err := r.Gateway.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, key, c, r.Config.Cache.CustomerTTL)
	return c, nil
}

func (r *identityResolver) lookupByCustomerID(ctx context.Context, customerID string) string {
	key := cache.GenerateKey(cache.PrefixUserByCustomerID, customerID)
	if v, ok := r.Cache.Get(ctx, key); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}

	u, err := r.UserRepo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		r.Logger.Debugw("no user linked to customer",
			"customer_id", customerID,
			"error", err)
		return ""
	}
	r.Cache.Set(ctx, key, u.ID, r.Config.Cache.CustomerTTL)
	return u.ID
}
