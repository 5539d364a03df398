package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/clock"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store/models"

	"github.com/bwmarrin/discordgo"
)

// editErrorMessage translates store rejections into user-facing text.
func editErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrBadIndex):
		return "No event with that number. Check `/events list`."
	case errors.Is(err, store.ErrWrongKind):
		return "That event is not of the kind this subcommand edits."
	case errors.Is(err, store.ErrNotFound):
		return "No event with that name."
	case errors.Is(err, store.ErrPastTime):
		return "That time has already passed."
	case errors.Is(err, store.ErrInvalidTime):
		return "Time must be in 24h `HH:MM` format."
	default:
		return err.Error()
	}
}

func (b *Bot) handleEditEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "editevent "+sub.Name)

	switch sub.Name {
	case "weekly-id", "weekly-name":
		tod, err := models.ParseTimeOfDay(opts["time"].StringValue())
		if err != nil {
			respondWithError(s, i, "Time must be in 24h `HH:MM` format.")
			return
		}
		var dayPtr *time.Weekday
		if opt, ok := opts["day"]; ok {
			day, err := models.ParseWeekday(opt.StringValue())
			if err != nil {
				respondWithError(s, i, "Use a weekday name like `Monday`.")
				return
			}
			dayPtr = &day
		}

		if sub.Name == "weekly-id" {
			ev, err := b.events.EditWeeklyByID(i.GuildID, int(opts["id"].IntValue()), dayPtr, tod)
			if err != nil {
				respondWithError(s, i, editErrorMessage(err))
				return
			}
			respondWithEmbed(s, i, makeEmbed("✏️ Event Updated",
				fmt.Sprintf("**%s** now on **%s %s**", ev.Name, ev.Day, ev.Time), colorGreen))
			return
		}

		name := opts["name"].StringValue()
		count, err := b.events.EditWeeklyByName(i.GuildID, name, dayPtr, tod)
		if err != nil {
			respondWithError(s, i, editErrorMessage(err))
			return
		}
		respondWithEmbed(s, i, makeEmbed("✏️ Events Updated",
			fmt.Sprintf("Updated %d weekly event(s) named **%s**.", count, name), colorGreen))

	case "countdown-id", "countdown-name":
		delta, err := clock.ParseDuration(opts["duration"].StringValue())
		if err != nil {
			respondWithError(s, i, "Use a duration like `1d 03:30` or `00:45`.")
			return
		}
		virtualNow := b.engine.VirtualNow(i.GuildID)
		fireAt := virtualNow.Add(delta)

		if sub.Name == "countdown-id" {
			ev, err := b.events.EditCountdownByID(i.GuildID, int(opts["id"].IntValue()), fireAt, virtualNow)
			if err != nil {
				respondWithError(s, i, editErrorMessage(err))
				return
			}
			respondWithEmbed(s, i, makeEmbed("✏️ Countdown Rescheduled",
				fmt.Sprintf("**%s** now fires at **%s** server time.",
					ev.Name, ev.FireAt.Format("Monday 15:04")), colorGreen))
			return
		}

		name := opts["name"].StringValue()
		count, err := b.events.EditCountdownByName(i.GuildID, name, fireAt, virtualNow)
		if err != nil {
			respondWithError(s, i, editErrorMessage(err))
			return
		}
		respondWithEmbed(s, i, makeEmbed("✏️ Countdowns Rescheduled",
			fmt.Sprintf("Rescheduled %d countdown(s) named **%s** to **%s** server time.",
				count, name, fireAt.Format("Monday 15:04")), colorGreen))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}

func (b *Bot) handleDeleteEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "deleteevent "+sub.Name)

	switch sub.Name {
	case "id":
		removed, err := b.events.DeleteByID(i.GuildID, int(opts["id"].IntValue()))
		if err != nil {
			respondWithError(s, i, editErrorMessage(err))
			return
		}
		respondWithEmbed(s, i, makeEmbed("🗑️ Event Deleted",
			fmt.Sprintf("Removed **%s**.", removed.Name), colorGreen))

	case "name":
		name := opts["name"].StringValue()
		count := b.events.DeleteByName(i.GuildID, name)
		if count == 0 {
			respondWithError(s, i, "No event with that name.")
			return
		}
		respondWithEmbed(s, i, makeEmbed("🗑️ Events Deleted",
			fmt.Sprintf("Removed %d event(s) named **%s**.", count, name), colorGreen))

	case "weekly":
		count := b.events.DeleteAllWeekly(i.GuildID)
		respondWithEmbed(s, i, makeEmbed("🗑️ Weekly Events Deleted",
			fmt.Sprintf("Removed %d weekly event(s).", count), colorGreen))

	case "countdowns":
		count := b.events.DeleteAllCountdowns(i.GuildID)
		respondWithEmbed(s, i, makeEmbed("🗑️ Countdowns Deleted",
			fmt.Sprintf("Removed %d countdown(s).", count), colorGreen))

	case "all":
		count := b.events.DeleteAll(i.GuildID)
		respondWithEmbed(s, i, makeEmbed("🗑️ All Events Deleted",
			fmt.Sprintf("Removed %d event(s).", count), colorGreen))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}

func (b *Bot) handleAutoDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if len(i.ApplicationCommandData().Options) == 0 {
		respondWithError(s, i, "Invalid command options")
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	opts := subcommandOptions(sub)
	logCommand(s, i, "autodelete "+sub.Name)

	index := int(opts["id"].IntValue())

	switch sub.Name {
	case "toggle":
		ev, err := b.events.ToggleAutoDelete(i.GuildID, index)
		if err != nil {
			respondWithError(s, i, editErrorMessage(err))
			return
		}
		state := "off"
		if ev.AutoDelete {
			state = "on"
		}
		respondWithEmbed(s, i, makeEmbed("🔁 Auto-Delete Toggled",
			fmt.Sprintf("Auto-delete is now **%s** for **%s**.", state, ev.Name), colorGreen))

	case "check":
		ev, err := b.events.EventByIndex(i.GuildID, index)
		if err != nil {
			respondWithError(s, i, editErrorMessage(err))
			return
		}
		state := "off"
		if ev.AutoDelete {
			state = "on"
		}
		desc := fmt.Sprintf("Auto-delete is **%s** for **%s**.", state, ev.Name)
		if ev.LastFired != nil {
			desc += fmt.Sprintf("\nLast fired %s UTC.", ev.LastFired.Format("Mon Jan 2 15:04"))
		}
		respondWithEmbed(s, i, makeEmbed("🔁 Auto-Delete Status", desc, colorBlue))

	default:
		respondWithError(s, i, "Invalid subcommand")
	}
}
