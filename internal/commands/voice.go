package commands

import (
	"context"

	"jukebot/internal/voice"
	"jukebot/pkg/cmd"
)

func playHandler(v Voice) cmd.Handler {
	return func(ctx context.Context, inv *cmd.Invocation) error {
		name := inv.Args.String("name")
		res, err := v.Play(ctx, inv.Caller.GuildID, inv.Caller.UserID, name)

		if res.Join.Status == voice.Joined {
			if sendErr := inv.Replyf(ctx, "Joined **%s**", res.Join.ChannelName); sendErr != nil {
				return sendErr
			}
			return err
		}
		if err != nil {
			return err
		}
		return inv.Replyf(ctx, "Now playing **%s**", res.Track.Name)
	}
}

func stopHandler(v Voice) cmd.Handler {
	return func(ctx context.Context, inv *cmd.Invocation) error {
		if err := v.Stop(ctx, inv.Caller.GuildID); err != nil {
			return err
		}
		return inv.Respond(ctx, "Playback stopped.")
	}
}

func scramHandler(v Voice) cmd.Handler {
	return func(ctx context.Context, inv *cmd.Invocation) error {
		res, err := v.Leave(ctx, inv.Caller.GuildID)
		if err != nil {
			return err
		}
		return inv.Replyf(ctx, "Left **%s**", res.ChannelName)
	}
}
