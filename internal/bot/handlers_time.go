package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/clock"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleServerClock(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "serverclock "+sub.Name)

	switch sub.Name {
	case "set":
		tod, err := models.ParseTimeOfDay(opts["time"].StringValue())
		if err != nil {
			respondWithEmbed(s, i, makeEmbed("❌ Invalid Format",
				"Usage: `/serverclock set HH:MM [day]` (24-hour).", colorRed))
			return
		}

		nowUTC := time.Now().UTC()
		requestedDay := nowUTC.Weekday()
		var dayPtr *time.Weekday
		if opt, ok := opts["day"]; ok {
			day, err := models.ParseWeekday(opt.StringValue())
			if err != nil {
				respondWithEmbed(s, i, makeEmbed("❌ Invalid Day",
					"Day must be a valid weekday name (e.g., Monday, Friday).", colorRed))
				return
			}
			dayPtr = &day
			requestedDay = day
		}

		offset := clock.ClockSetOffset(dayPtr, tod.Hour, tod.Minute, nowUTC)
		b.settings.SetOffset(i.GuildID, offset)
		log.Printf(formatLogMessage(i.GuildID,
			fmt.Sprintf("Set server offset to %+d mins", offset), "CLOCK", ""))

		respondWithEmbed(s, i, makeEmbed("✅ Server Clock Set", "", colorGreen,
			embedField("Requested", fmt.Sprintf("%s %s", requestedDay, tod)),
			embedField("Offset", fmt.Sprintf("%+d minutes from UTC", offset)),
		))

	case "day":
		day, err := models.ParseWeekday(opts["day"].StringValue())
		if err != nil {
			respondWithEmbed(s, i, makeEmbed("❌ Invalid Day",
				"Day must be a valid weekday name (e.g., Monday, Friday).", colorRed))
			return
		}

		delta := clock.DayShiftOffset(day, time.Now().UTC())
		total := b.settings.AddOffset(i.GuildID, delta)
		log.Printf(formatLogMessage(i.GuildID,
			fmt.Sprintf("Set server day to %s (offset adjusted by %+d mins)", day, delta), "CLOCK", ""))

		respondWithEmbed(s, i, makeEmbed("📅 Server Day Adjusted", "", colorGreen,
			embedField("Target Day", day.String()),
			embedField("Offset Change", fmt.Sprintf("%+d minutes", delta)),
			embedField("New Total Offset", fmt.Sprintf("%+d minutes", total)),
		))

	case "show":
		offset, ok := b.settings.Offset(i.GuildID)
		if !ok {
			respondWithEmbed(s, i, makeEmbed("❌ Not Set",
				"Use `/serverclock set HH:MM` first.", colorRed))
			return
		}

		serverNow := clock.ToVirtual(time.Now().UTC(), offset)
		respondWithEmbed(s, i, makeEmbed("🕒 Server Time", "", colorBlue,
			embedField("Offset", fmt.Sprintf("%+d minutes", offset)),
			embedField("Current", serverNow.Format("Monday 15:04")),
		))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}

func (b *Bot) handleTimezone(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "timezone "+sub.Name)

	userID := i.Member.User.ID

	switch sub.Name {
	case "set":
		zone := opts["zone"].StringValue()
		if err := b.settings.SetUserTimezone(userID, zone); err != nil {
			respondWithEmbed(s, i, makeEmbed("❌ Invalid Timezone",
				"Use a valid tz string like `Asia/Kolkata`.", colorRed))
			return
		}
		respondWithEmbed(s, i, makeEmbed("✅ Timezone Set",
			fmt.Sprintf("Your timezone is now **%s**.", zone), colorGreen))

	case "show":
		tz, ok := b.settings.UserTimezone(userID)
		if !ok {
			respondWithEmbed(s, i, makeEmbed("❌ No Timezone Set",
				"Use `/timezone set Region/City`.", colorRed))
			return
		}
		local, err := clock.UserLocal(time.Now().UTC(), tz)
		if err != nil {
			respondWithError(s, i, "Error loading your timezone: "+err.Error())
			return
		}
		respondWithEmbed(s, i, makeEmbed("🌐 Your Timezone", "", colorBlue,
			embedField("Timezone", tz),
			embedField("Local Time", local.Format("Monday 15:04 MST")),
		))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}

func (b *Bot) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	logCommand(s, i, "setchannel")

	b.settings.SetChannel(i.GuildID, i.ChannelID)
	log.Printf(formatLogMessage(i.GuildID,
		"Announcement channel set to "+i.ChannelID, "BOT", getServerName(s, i.GuildID)))

	respondWithEmbed(s, i, makeEmbed("✅ Channel Set",
		fmt.Sprintf("Announcements will be posted in <#%s>.", i.ChannelID), colorGreen))
}

func (b *Bot) handleTips(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "tips "+sub.Name)

	switch sub.Name {
	case "add":
		if !isAdmin(s, i.GuildID, i.Member.User.ID) {
			respondWithError(s, i, "Only server admins can add tips")
			return
		}
		tip := opts["text"].StringValue()
		b.tips.Add(i.GuildID, tip)
		respondWithEmbed(s, i, makeEmbed("✅ Tip Added", tip, colorGreen))

	case "remove":
		if !isAdmin(s, i.GuildID, i.Member.User.ID) {
			respondWithError(s, i, "Only server admins can remove tips")
			return
		}
		index := int(opts["index"].IntValue())
		removed, err := b.tips.Remove(i.GuildID, index)
		if err != nil {
			respondWithEmbed(s, i, makeEmbed("❌ Invalid Index",
				fmt.Sprintf("No tip at position %d.", index), colorRed))
			return
		}
		respondWithEmbed(s, i, makeEmbed("🗑️ Tip Removed", removed, colorGreen))

	case "list":
		tips := b.tips.List(i.GuildID)
		if len(tips) == 0 {
			respondWithEmbed(s, i, makeEmbed("📝 No Tips Available",
				"There are currently no tips for this server.", colorBlue))
			return
		}
		var lines []string
		for idx, tip := range tips {
			lines = append(lines, fmt.Sprintf("**%d.** %s", idx+1, tip))
		}
		respondWithEmbed(s, i, makeEmbed("📝 Tips", strings.Join(lines, "\n"), colorBlue))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}
