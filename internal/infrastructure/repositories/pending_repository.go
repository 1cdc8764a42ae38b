package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/booklib/domain"
)

// PendingRegistrationRepositoryImpl implements domain.PendingRegistrationRepository using Redis
type PendingRegistrationRepositoryImpl struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPendingRegistrationRepository stores entries under prefix+username with a fixed TTL
func NewPendingRegistrationRepository(client redis.UniversalClient, prefix string, ttl time.Duration) *PendingRegistrationRepositoryImpl {
	return &PendingRegistrationRepositoryImpl{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *PendingRegistrationRepositoryImpl) key(username string) string {
	return r.prefix + username
}

// Save implements domain.PendingRegistrationRepository
func (r *PendingRegistrationRepositoryImpl) Save(ctx context.Context, pending *domain.PendingRegistration) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending registration: %w", err)
	}
	return r.client.Set(ctx, r.key(pending.Username), data, r.ttl).Err()
}

// Find implements domain.PendingRegistrationRepository
func (r *PendingRegistrationRepositoryImpl) Find(ctx context.Context, username string) (*domain.PendingRegistration, error) {
	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}

	var pending domain.PendingRegistration
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending registration: %w", err)
	}
	return &pending, nil
}

// Delete implements domain.PendingRegistrationRepository
func (r *PendingRegistrationRepositoryImpl) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, r.key(username)).Err()
}

var _ domain.PendingRegistrationRepository = (*PendingRegistrationRepositoryImpl)(nil)
