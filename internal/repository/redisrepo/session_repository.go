// Package redisrepo provides a Redis-backed session store so auth state
// survives restarts and can be shared by multiple instances.
package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	notebookKeyPrefix = "notebook_sessions:"
)

type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(redisURL string, ttl time.Duration) (contract.SessionRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &SessionRepository{client: client, ttl: ttl}, nil
}

// NewSessionRepositoryWithClient builds a store from an existing client.
// Used by tests with miniredis.
func NewSessionRepositoryWithClient(client *redis.Client, ttl time.Duration) contract.SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func notebookKey(slug string) string {
	return notebookKeyPrefix + slug
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.Notebooks == nil {
		session.Notebooks = make(map[string]bool)
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), raw, r.ttl)
	// Index which sessions hold an auth entry per notebook so PurgeNotebook
	// does not have to scan the keyspace. The index is a superset: entries for
	// since-demoted sessions linger until purge, which tolerates them.
	for slug, authed := range session.Notebooks {
		if authed {
			pipe.SAdd(ctx, notebookKey(slug), session.ID)
			pipe.Expire(ctx, notebookKey(slug), r.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) PurgeNotebook(ctx context.Context, slug string) error {
	sessionIDs, err := r.client.SMembers(ctx, notebookKey(slug)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("load notebook session index: %w", err)
	}

	for _, sessionID := range sessionIDs {
		session, err := r.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || !session.IsAuthenticated(slug) {
			continue
		}
		session.SetAuthenticated(slug, false)
		raw, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		// keepttl: purging auth state must not extend the session.
		if err := r.client.Set(ctx, sessionKey(sessionID), raw, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
	}

	if err := r.client.Del(ctx, notebookKey(slug)).Err(); err != nil {
		return fmt.Errorf("drop notebook session index: %w", err)
	}
	return nil
}

func (r *SessionRepository) TouchExpiry(ctx context.Context, sessionID string) error {
	// Expire on a missing key is a no-op, matching the contract.
	if err := r.client.Expire(ctx, sessionKey(sessionID), r.ttl).Err(); err != nil {
		return fmt.Errorf("touch session expiry: %w", err)
	}
	return nil
}
