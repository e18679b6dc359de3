package commands

import (
	"context"

	"jukebot/pkg/cmd"
)

// listHandler sends one message per track.
func listHandler(lib Library) cmd.Handler {
	return func(ctx context.Context, inv *cmd.Invocation) error {
		names, err := lib.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := inv.Respond(ctx, name); err != nil {
				return err
			}
		}
		return nil
	}
}
