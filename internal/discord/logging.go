package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// bridgeLogger routes discordgo's internal log lines into zerolog.
func bridgeLogger(log zerolog.Logger) func(msgL, caller int, format string, a ...interface{}) {
	log = log.With().Str("source", "discordgo").Logger()
	return func(msgL, _ int, format string, a ...interface{}) {
		var ev *zerolog.Event
		switch msgL {
		case discordgo.LogError:
			ev = log.Error()
		case discordgo.LogWarning:
			ev = log.Warn()
		case discordgo.LogInformational:
			ev = log.Info()
		default:
			ev = log.Debug()
		}
		ev.Msgf(format, a...)
	}
}
