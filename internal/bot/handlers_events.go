package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/clock"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/scheduler"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleEvents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]

	switch sub.Name {
	case "add":
		b.handleEventAdd(s, i, sub)
	case "countdown":
		b.handleEventCountdown(s, i, sub)
	case "list":
		b.handleEventList(s, i)
	case "today":
		b.handleEventsToday(s, i)
	case "next":
		b.handleEventNext(s, i)
	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}

func (b *Bot) handleEventAdd(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	logCommand(s, i, "events add")
	opts := subcommandOptions(sub)

	day, err := models.ParseWeekday(opts["day"].StringValue())
	if err != nil {
		respondWithEmbed(s, i, makeEmbed("❌ Invalid Day",
			"Use a weekday name like `Monday`, `Tuesday`, etc.", colorRed))
		return
	}
	tod, err := models.ParseTimeOfDay(opts["time"].StringValue())
	if err != nil {
		respondWithEmbed(s, i, makeEmbed("❌ Invalid Time Format",
			"Time must be in 24h `HH:MM` format.", colorRed))
		return
	}

	name := opts["name"].StringValue()
	var info string
	if opt, ok := opts["info"]; ok {
		info = opt.StringValue()
	}
	var autoDelete bool
	if opt, ok := opts["autodelete"]; ok {
		autoDelete = opt.BoolValue()
	}

	virtualNow := b.engine.VirtualNow(i.GuildID)
	ev, err := b.events.AddWeekly(i.GuildID, day, tod, name, info, autoDelete, virtualNow)
	switch {
	case errors.Is(err, store.ErrPastTime):
		respondWithEmbed(s, i, makeEmbed("⚠️ Time Already Passed",
			"This time has already passed today.", colorOrange))
		return
	case errors.Is(err, store.ErrDuplicateName):
		respondWithEmbed(s, i, makeEmbed("❌ Duplicate Name",
			fmt.Sprintf("An event named **%s** already exists.", name), colorRed))
		return
	case err != nil:
		respondWithError(s, i, err.Error())
		return
	}

	embed := makeEmbed("✅ Weekly Event Added",
		fmt.Sprintf("**%s** on **%s %s**", ev.Name, ev.Day, ev.Time), colorGreen)
	if ev.Info != "" {
		embed.Fields = append(embed.Fields, embedField("Details", ev.Info))
	}
	respondWithEmbed(s, i, embed)
}

func (b *Bot) handleEventCountdown(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	logCommand(s, i, "events countdown")
	opts := subcommandOptions(sub)

	durationStr := opts["duration"].StringValue()
	delta, err := clock.ParseDuration(durationStr)
	if err != nil {
		respondWithEmbed(s, i, makeEmbed("❌ Invalid Duration Format",
			"Use format like `1d 03:30` or just `03:15`.", colorRed))
		return
	}

	name := opts["name"].StringValue()
	var info string
	if opt, ok := opts["info"]; ok {
		info = opt.StringValue()
	}
	var autoDelete bool
	if opt, ok := opts["autodelete"]; ok {
		autoDelete = opt.BoolValue()
	}

	virtualNow := b.engine.VirtualNow(i.GuildID)
	fireAt := virtualNow.Add(delta)
	ev, err := b.events.AddCountdown(i.GuildID, fireAt, name, info, autoDelete, virtualNow)
	switch {
	case errors.Is(err, store.ErrPastTime):
		respondWithEmbed(s, i, makeEmbed("❌ Invalid Duration",
			"That duration has already elapsed.", colorRed))
		return
	case err != nil:
		respondWithError(s, i, err.Error())
		return
	}

	desc := fmt.Sprintf("**%s** will go live in `%s` at **%s** server time.",
		ev.Name, durationStr, ev.FireAt.Format("Monday 15:04"))
	if ev.AutoDelete {
		desc += "\n✅ Will auto-delete after firing."
	}
	embed := makeEmbed("✅ Countdown Scheduled", desc, colorGreen)
	if ev.Info != "" {
		embed.Fields = append(embed.Fields, embedField("Details", ev.Info))
	}
	respondWithEmbed(s, i, embed)
}

func (b *Bot) handleEventList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	logCommand(s, i, "events list")

	events := b.events.Events(i.GuildID)
	if len(events) == 0 {
		respondWithEmbed(s, i, makeEmbed("📭 No Events", "No events scheduled for this server.", colorBlue))
		return
	}

	headers := []string{"ID", "Type", "When", "Name", "Auto"}
	rows := make([][]string, 0, len(events))
	for idx, ev := range events {
		var when string
		switch ev.Kind {
		case models.EventWeekly:
			when = fmt.Sprintf("%s %s", ev.Day, ev.Time)
		case models.EventCountdown:
			when = ev.FireAt.Format("Mon Jan 2 15:04")
		}
		auto := "no"
		if ev.AutoDelete {
			auto = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(idx + 1),
			string(ev.Kind),
			when,
			truncateString(ev.Name, 32),
			auto,
		})
	}

	respondWithSuccess(s, i, formatTable(headers, rows))
}

func (b *Bot) handleEventsToday(s *discordgo.Session, i *discordgo.InteractionCreate) {
	logCommand(s, i, "events today")

	ups := b.engine.TodaysEvents(i.GuildID)
	if len(ups) == 0 {
		respondWithEmbed(s, i, makeEmbed("📭 No Events Today", "", colorBlue))
		return
	}

	offset, _ := b.settings.Offset(i.GuildID)
	userTZ, hasTZ := b.settings.UserTimezone(i.Member.User.ID)

	var lines []string
	for _, up := range ups {
		utc := clock.ToReal(up.At, offset)
		switch up.Event.Kind {
		case models.EventWeekly:
			line := fmt.Sprintf("🗓️ **%s** server | %s UTC", up.Event.Time, utc.Format("15:04"))
			if hasTZ {
				if local, err := clock.UserLocal(utc, userTZ); err == nil {
					line += fmt.Sprintf(" | %s", local.Format("15:04 MST"))
				}
			}
			lines = append(lines, fmt.Sprintf("%s — **%s**", line, up.Event.Name))
		case models.EventCountdown:
			lines = append(lines, fmt.Sprintf("⏳ %s server — **%s**",
				up.At.Format("15:04"), up.Event.Name))
		}
	}

	respondWithEmbed(s, i, makeEmbed("📅 Today's Events", strings.Join(lines, "\n"), colorBlue))
}

func (b *Bot) handleEventNext(s *discordgo.Session, i *discordgo.InteractionCreate) {
	logCommand(s, i, "events next")

	up, ok := b.engine.NextEvent(i.GuildID)
	if !ok {
		respondWithEmbed(s, i, makeEmbed("📭 No Upcoming Events", "", colorBlue))
		return
	}

	virtualNow := b.engine.VirtualNow(i.GuildID)
	offset, _ := b.settings.Offset(i.GuildID)
	utc := clock.ToReal(up.At, offset)

	embed := makeEmbed(fmt.Sprintf("➡️ Next Event: %s", up.Event.Name), up.Event.Info, colorGreen,
		embedField("Server Time", serverTimeLabel(up)),
		embedField("UTC Time", utc.Format("Mon 15:04 UTC")),
		embedField("Starts In", formatDuration(up.At.Sub(virtualNow))),
	)
	if tz, ok := b.settings.UserTimezone(i.Member.User.ID); ok {
		if local, err := clock.UserLocal(utc, tz); err == nil {
			embed.Fields = append(embed.Fields, embedField("Your Time", local.Format("Mon 15:04 MST")))
		}
	}
	respondWithEmbed(s, i, embed)
}

func serverTimeLabel(up scheduler.Upcoming) string {
	if up.Event.Kind == models.EventWeekly {
		return fmt.Sprintf("%s %s", up.Event.Day, up.Event.Time)
	}
	return up.At.Format("Monday 15:04")
}
