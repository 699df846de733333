package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func (r repo) appendToList(ctx context.Context, c redis.Scripter, key string, value any) {
	c.EvalSha(ctx, r.appendScript, []string{key}, value)
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
