package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatLogMessage builds a consistently tagged log line for a guild.
func formatLogMessage(guildID, message, component, serverName string) string {
	parts := []string{}
	if component != "" {
		parts = append(parts, "["+component+"]")
	}
	if serverName != "" {
		parts = append(parts, serverName)
	}
	if guildID != "" {
		parts = append(parts, "("+guildID+")")
	}
	parts = append(parts, message)
	return strings.Join(parts, " ")
}

// getServerName resolves a guild's display name for logging.
func getServerName(s *discordgo.Session, guildID string) string {
	if guild, err := s.Guild(guildID); err == nil {
		return guild.Name
	}
	return guildID
}

// hasPermission checks a member's channel-independent guild permissions.
func hasPermission(s *discordgo.Session, guildID, userID string, permission int64) bool {
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return false
	}
	guild, err := s.Guild(guildID)
	if err != nil {
		return false
	}
	if guild.OwnerID == userID {
		return true
	}
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID != roleID {
				continue
			}
			if role.Permissions&discordgo.PermissionAdministrator != 0 ||
				role.Permissions&permission != 0 {
				return true
			}
		}
	}
	return false
}

// isAdmin reports whether the user may manage the server.
func isAdmin(s *discordgo.Session, guildID, userID string) bool {
	return hasPermission(s, guildID, userID, discordgo.PermissionManageServer)
}

// respondWithError sends an error response to the user
func respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, errMsg string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Error: " + errMsg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondWithSuccess sends a success response to the user
func respondWithSuccess(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondWithEmbed sends an embed response, visible to the whole channel.
func respondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf(formatLogMessage(i.GuildID, "Error responding to interaction: "+err.Error(), "", ""))
	}
}

// subcommandOptions flattens a subcommand's options into a name-keyed map.
func subcommandOptions(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		out[opt.Name] = opt
	}
	return out
}

// logCommand logs command execution to the console.
func logCommand(s *discordgo.Session, i *discordgo.InteractionCreate, commandName string, details ...string) {
	var username string
	if i.Member != nil && i.Member.User != nil {
		username = i.Member.User.Username
	} else {
		username = "unknown"
	}

	logMessage := fmt.Sprintf("%s executed /%s", username, commandName)
	if len(details) > 0 {
		logMessage += fmt.Sprintf(" (%s)", strings.Join(details, " "))
	}
	log.Printf(formatLogMessage(i.GuildID, logMessage, "CMD", ""))
}

// formatTable creates a Discord-friendly table with fixed-width columns
func formatTable(headers []string, rows [][]string) string {
	// Find the maximum width for each column
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}

	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var result strings.Builder

	// Write headers
	result.WriteString("```\n")
	for i, header := range headers {
		result.WriteString(fmt.Sprintf("%-*s", widths[i]+2, header))
	}
	result.WriteString("\n")

	// Write separator
	for _, width := range widths {
		result.WriteString(strings.Repeat("-", width+2))
	}
	result.WriteString("\n")

	// Write rows
	for _, row := range rows {
		for i, cell := range row {
			result.WriteString(fmt.Sprintf("%-*s", widths[i]+2, cell))
		}
		result.WriteString("\n")
	}
	result.WriteString("```")

	return result.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
