package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"labsched/models"

	"github.com/go-redis/redis/v8"
)

const ReviewSessionPrefix = "reviewSession:"

// ReviewSessionTTL bounds how long an un-committed candidate batch survives.
const ReviewSessionTTL = 2 * time.Hour

// ReviewSession holds the editable candidate batch produced by one extraction
// run. Nothing in it is persisted until commit; discarding it is always safe.
type ReviewSession struct {
	ID            string                    `json:"id"`
	FileName      string                    `json:"fileName"`
	Strategy      string                    `json:"strategy"` // "heuristic" or "llm"
	Candidates    []models.CandidateSession `json:"candidates"`
	CreatedAt     time.Time                 `json:"createdAt"`
	LastUpdatedAt time.Time                 `json:"lastUpdatedAt"`
}

// Candidate returns a pointer into the session's candidate slice, or nil.
func (s *ReviewSession) Candidate(id string) *models.CandidateSession {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}
	return nil
}

// SaveReviewSession saves the review session in Redis with a TTL.
func SaveReviewSession(client *redis.Client, session *ReviewSession) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal review session: %w", err)
	}
	ctx := context.Background()
	if err := client.Set(ctx, ReviewSessionPrefix+session.ID, data, ReviewSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save review session: %w", err)
	}
	return nil
}

// GetReviewSession retrieves a review session from Redis.
func GetReviewSession(client *redis.Client, sessionID string) (*ReviewSession, error) {
	ctx := context.Background()
	data, err := client.Get(ctx, ReviewSessionPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var session ReviewSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review session: %w", err)
	}
	return &session, nil
}

// DeleteReviewSession removes a review session from Redis.
func DeleteReviewSession(client *redis.Client, sessionID string) error {
	ctx := context.Background()
	return client.Del(ctx, ReviewSessionPrefix+sessionID).Err()
}
