package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/statuses"
	"github.com/pkg/errors"
)

// Cached entries self-evict so the cache can't accumulate jobs the sentinel
// stopped hearing from.
const cacheTTL = 24 * time.Hour

type cache struct {
	redisClient *redis.Client
}

// NewCache returns a Cache that keeps each job's latest observation in Redis.
func NewCache(redisClient *redis.Client) statuses.Cache {
	return &cache{
		redisClient: redisClient,
	}
}

func (c *cache) GetLatestStatus(
	_ context.Context,
	jobID string,
) (lwfm.JobStatus, bool, error) {
	status := lwfm.JobStatus{}
	statusJSON, err := c.redisClient.Get(latestStatusKey(jobID)).Bytes()
	if err == redis.Nil {
		return status, false, nil
	}
	if err != nil {
		return status, false, errors.Wrapf(
			err,
			"error reading cached status of job %q",
			jobID,
		)
	}
	if err := json.Unmarshal(statusJSON, &status); err != nil {
		return status, false, errors.Wrapf(
			err,
			"error decoding cached status of job %q",
			jobID,
		)
	}
	return status, true, nil
}

func (c *cache) SetLatestStatus(
	ctx context.Context,
	status lwfm.JobStatus,
) error {
	// A late-arriving report with an older emit time must not displace the
	// cached latest
	cached, ok, err := c.GetLatestStatus(ctx, status.JobContext.ID)
	if err == nil && ok && cached.EmitTime.After(status.EmitTime) {
		return nil
	}
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return errors.Wrapf(
			err,
			"error encoding status of job %q",
			status.JobContext.ID,
		)
	}
	if err := c.redisClient.Set(
		latestStatusKey(status.JobContext.ID),
		statusJSON,
		cacheTTL,
	).Err(); err != nil {
		return errors.Wrapf(
			err,
			"error caching status of job %q",
			status.JobContext.ID,
		)
	}
	return nil
}

func latestStatusKey(jobID string) string {
	return fmt.Sprintf("lwfm:statuses:latest:%s", jobID)
}
