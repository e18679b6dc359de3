package discord

import (
	"github.com/bwmarrin/discordgo"

	"jukebot/internal/core"
)

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	g.push(readyEvent(r))
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if ev, ok := messageEvent(m); ok {
		g.push(ev)
	}
}

func (g *Gateway) onVoiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if ev, ok := voiceStateEvent(v); ok {
		g.push(ev)
	}
}

func readyEvent(r *discordgo.Ready) core.ReadyEvent {
	ev := core.ReadyEvent{Guilds: len(r.Guilds)}
	if r.User != nil {
		ev.UserID = r.User.ID
		ev.Username = r.User.Username
	}
	return ev
}

// messageEvent drops messages without an author, such as some system
// messages.
func messageEvent(m *discordgo.MessageCreate) (core.MessageEvent, bool) {
	if m.Message == nil || m.Author == nil {
		return core.MessageEvent{}, false
	}
	return core.MessageEvent{
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Content:    m.Content,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
	}, true
}

func voiceStateEvent(v *discordgo.VoiceStateUpdate) (core.VoiceStateEvent, bool) {
	if v.VoiceState == nil || v.GuildID == "" {
		return core.VoiceStateEvent{}, false
	}
	ev := core.VoiceStateEvent{
		GuildID:        v.GuildID,
		UserID:         v.UserID,
		AfterChannelID: v.ChannelID,
	}
	if v.BeforeUpdate != nil {
		ev.BeforeChannelID = v.BeforeUpdate.ChannelID
	}
	return ev, true
}
