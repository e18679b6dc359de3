package commands

import (
	"context"
	"strconv"

	"jukebot/pkg/cmd"
)

func rollHandler(randN func(int64) int64) cmd.Handler {
	return func(ctx context.Context, inv *cmd.Invocation) error {
		maxVal := inv.Args.Int("max_val")
		if maxVal < 1 {
			return cmd.InvalidArgument("argument <max_val> must be at least 1")
		}
		return inv.Respond(ctx, strconv.FormatInt(randN(maxVal)+1, 10))
	}
}
