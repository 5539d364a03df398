package bot

import (
	"github.com/bwmarrin/discordgo"
)

var (
	// Permission for admin commands (Manage Server permission)
	adminPermission = int64(discordgo.PermissionManageServer)

	dayOption = func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "day",
			Description: "Weekday name (e.g., Monday)",
			Required:    required,
		}
	}
	timeOption = &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "time",
		Description: "Server time in 24h HH:MM format",
		Required:    true,
	}
	durationOption = &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: "Countdown duration, like `1d 03:30` or `00:45`",
		Required:    true,
	}
	indexOption = &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: "Event number as shown by /events list",
		Required:    true,
	}

	commands = []*discordgo.ApplicationCommand{
		{
			Name:        "events",
			Description: "Schedule and view guild events",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a weekly event (server time)",
					Options: []*discordgo.ApplicationCommandOption{
						dayOption(true),
						timeOption,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Event name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "info",
							Description: "Event details",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "autodelete",
							Description: "Remove the event 24h after it fires",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "countdown",
					Description: "Schedule a one-shot countdown event",
					Options: []*discordgo.ApplicationCommandOption{
						durationOption,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Event name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "info",
							Description: "Event details",
							Required:    false,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "autodelete",
							Description: "Remove the event 24h after it fires",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all scheduled events",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "today",
					Description: "Show events happening today (server time)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "next",
					Description: "Show the next upcoming event",
				},
			},
		},
		{
			Name:                     "editevent",
			Description:              "Edit a scheduled event",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "weekly-id",
					Description: "Edit a weekly event by its number",
					Options: []*discordgo.ApplicationCommandOption{
						indexOption,
						timeOption,
						dayOption(false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "weekly-name",
					Description: "Edit all weekly events with a name",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Event name (case-insensitive)",
							Required:    true,
						},
						timeOption,
						dayOption(false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "countdown-id",
					Description: "Reschedule a countdown by its number",
					Options: []*discordgo.ApplicationCommandOption{
						indexOption,
						durationOption,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "countdown-name",
					Description: "Reschedule all countdowns with a name",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Event name (case-insensitive)",
							Required:    true,
						},
						durationOption,
					},
				},
			},
		},
		{
			Name:                     "deleteevent",
			Description:              "Delete scheduled events",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "id",
					Description: "Delete one event by its number",
					Options:     []*discordgo.ApplicationCommandOption{indexOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "name",
					Description: "Delete all events with a name",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Event name (case-insensitive)",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "weekly",
					Description: "Delete every weekly event",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "countdowns",
					Description: "Delete every countdown event",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "all",
					Description: "Delete every event in this server",
				},
			},
		},
		{
			Name:                     "autodelete",
			Description:              "Manage per-event auto-delete",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "toggle",
					Description: "Toggle auto-delete for an event",
					Options:     []*discordgo.ApplicationCommandOption{indexOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check",
					Description: "Check auto-delete status for an event",
					Options:     []*discordgo.ApplicationCommandOption{indexOption},
				},
			},
		},
		{
			Name:                     "serverclock",
			Description:              "Manage this server's virtual clock",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the server clock to a time (and optionally a day)",
					Options: []*discordgo.ApplicationCommandOption{
						timeOption,
						dayOption(false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "day",
					Description: "Roll the server day forward, keeping the time",
					Options:     []*discordgo.ApplicationCommandOption{dayOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current server time and offset",
				},
			},
		},
		{
			Name:        "timezone",
			Description: "Your local timezone for event time display",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set your timezone",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "zone",
							Description: "Timezone (e.g., America/New_York, Europe/London)",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show your timezone and local time",
				},
			},
		},
		{
			Name:                     "setchannel",
			Description:              "Use this channel for event announcements",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:        "tips",
			Description: "Guild tips, one posted daily",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a tip (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "text",
							Description: "Tip text",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a tip by its number (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "index",
							Description: "Tip number as shown by /tips list",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's tips",
				},
			},
		},
	}
)
