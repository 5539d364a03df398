package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	colorRed    = 0xED4245
	colorGreen  = 0x57F287
	colorBlue   = 0x3498DB
	colorGold   = 0xF1C40F
	colorOrange = 0xE67E22
)

func makeEmbed(title, description string, color int, fields ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
	}
}

func embedField(name, value string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value}
}

// AnnounceEvent posts a fired event to the guild's announcement channel with
// a broadcast mention. It satisfies scheduler.Notifier.
func (b *Bot) AnnounceEvent(channelID, name, info string) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: "@everyone",
		Embeds: []*discordgo.MessageEmbed{
			makeEmbed(fmt.Sprintf("📢 %s is Live!", name), info, colorRed),
		},
	})
	if err != nil {
		return fmt.Errorf("error sending announcement: %w", err)
	}
	return nil
}

// SendTip posts a daily tip embed. It satisfies scheduler.Notifier.
func (b *Bot) SendTip(channelID, tip string) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			makeEmbed("🧠 Daily Tip", tip, colorGold),
		},
	})
	if err != nil {
		return fmt.Errorf("error sending tip: %w", err)
	}
	return nil
}
