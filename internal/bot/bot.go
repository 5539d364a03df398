package bot

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/config"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/scheduler"
	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/store"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	config     *config.Config
	events     *store.EventStore
	settings   *store.Settings
	tips       *store.TipStore
	engine     *scheduler.Engine
	session    *discordgo.Session
	shutdownCh chan struct{}
	isShutdown bool
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func New(cfg *config.Config, events *store.EventStore, settings *store.Settings, tips *store.TipStore) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	// Required permissions for announcements
	requiredPermissions := int64(
		discordgo.PermissionViewChannel |
			discordgo.PermissionSendMessages |
			discordgo.PermissionMentionEveryone |
			discordgo.PermissionUseSlashCommands)

	cfg.Discord.Permissions = requiredPermissions

	log.Printf("Bot intents: %d", session.Identify.Intents)
	log.Printf("Bot permissions: %d", cfg.Discord.Permissions)

	return &Bot{
		config:     cfg,
		events:     events,
		settings:   settings,
		tips:       tips,
		session:    session,
		shutdownCh: make(chan struct{}),
		isShutdown: false,
	}, nil
}

// AttachEngine wires in the scheduler the command handlers query. Must be
// called before Start.
func (b *Bot) AttachEngine(e *scheduler.Engine) {
	b.engine = e
}

// Helper function to register commands for a guild
func (b *Bot) registerGuildCommands(guildID string) error {
	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := b.registerGuildCommandsOnce(guildID)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("Attempt %d to register commands failed: %v", i+1, err)
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return fmt.Errorf("failed to register commands after %d attempts: %v", maxRetries, lastErr)
}

func (b *Bot) registerGuildCommandsOnce(guildID string) error {
	serverName := getServerName(b.session, guildID)

	log.Printf(formatLogMessage(guildID, "Registering commands", "BOT", serverName))

	existing, err := b.session.ApplicationCommands(b.config.Discord.ClientID, guildID)
	if err != nil {
		return fmt.Errorf("error getting existing commands: %w", err)
	}

	// Delete all existing commands first
	for _, v := range existing {
		err := b.session.ApplicationCommandDelete(b.config.Discord.ClientID, guildID, v.ID)
		if err != nil {
			log.Printf(formatLogMessage(guildID,
				fmt.Sprintf("%s: Failed to delete command (%v)", v.Name, err), "BOT", serverName))
		}
	}

	for _, v := range commands {
		_, err := b.session.ApplicationCommandCreate(b.config.Discord.ClientID, guildID, v)
		if err != nil {
			return fmt.Errorf("error creating command %s: %w", v.Name, err)
		}
		log.Printf(formatLogMessage(guildID,
			fmt.Sprintf("%s: Registered command", v.Name), "BOT", serverName))
	}

	return nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Println("Starting event bot...")

	// Keep trying to connect until successful
	for {
		log.Println("Testing Discord API connection...")
		if _, err := b.session.User("@me"); err != nil {
			log.Printf("Failed to connect to Discord API: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
			continue
		}
		log.Println("Successfully connected to Discord API")
		break
	}

	for {
		if err := b.session.Open(); err != nil {
			log.Printf("Error opening Discord session: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
			continue
		}
		log.Printf("Session opened successfully (Session ID: %s)", b.session.State.SessionID)
		break
	}

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type == discordgo.InteractionApplicationCommand {
			b.handleCommand(s, i)
		}
	})

	log.Println("Registering commands for all guilds...")
	for _, guild := range b.session.State.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.Printf("Error registering commands for guild %s: %v", guild.ID, err)
		}
	}

	// Now add the guild create handler for future guilds
	b.session.AddHandler(b.handleGuildCreate)

	log.Println("Bot is now running. Press CTRL-C to exit.")

	<-ctx.Done()
	return b.Shutdown()
}

// Shutdown performs a graceful shutdown of the bot
func (b *Bot) Shutdown() error {
	log.Println("Initiating graceful shutdown...")

	// Ensure we only close the channel once
	b.mu.Lock()
	if b.isShutdown {
		b.mu.Unlock()
		return nil
	}
	b.isShutdown = true
	close(b.shutdownCh)
	b.mu.Unlock()

	log.Println("Waiting for active handlers to complete...")
	b.wg.Wait()

	log.Println("Closing Discord session...")
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing Discord session: %w", err)
	}

	log.Println("Shutdown completed successfully")
	return nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Bot is ready! Connected to %d guilds", len(r.Guilds))
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf(formatLogMessage(g.ID, "Bot joined new guild", "BOT", g.Name))

	// Default the announcement channel to the first text channel the bot can
	// send to, so events fire somewhere until an admin picks a channel.
	if _, ok := b.settings.Channel(g.ID); !ok {
		for _, ch := range g.Channels {
			if ch.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			perms, err := s.UserChannelPermissions(s.State.User.ID, ch.ID)
			if err != nil || perms&discordgo.PermissionSendMessages == 0 {
				continue
			}
			b.settings.SetChannel(g.ID, ch.ID)
			log.Printf(formatLogMessage(g.ID,
				fmt.Sprintf("Auto-set announcement channel to #%s", ch.Name), "BOT", g.Name))
			break
		}
	}

	if err := b.registerGuildCommands(g.ID); err != nil {
		log.Printf(formatLogMessage(g.ID, fmt.Sprintf("Error registering commands: %v", err), "BOT", g.Name))
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.wg.Add(1)
	defer b.wg.Done()

	// Add defer to catch panics with stack trace
	defer func() {
		if r := recover(); r != nil {
			var username string
			if i.Member != nil && i.Member.User != nil {
				username = i.Member.User.Username
			} else {
				username = "unknown"
			}

			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Printf("Panic in command handler for user %s in guild %s:\nError: %v\nStack Trace:\n%s",
				username, i.GuildID, r, string(buf[:n]))

			respondWithError(s, i, "An internal error occurred")
		}
	}()

	commandName := i.ApplicationCommandData().Name

	// Every command is guild-scoped
	if i.GuildID == "" {
		respondWithError(s, i, fmt.Sprintf("The `/%s` command can only be used in a server", commandName))
		return
	}

	if !hasPermission(s, i.GuildID, i.Member.User.ID, discordgo.PermissionViewChannel) {
		respondWithError(s, i, "You don't have permission to use this command here")
		return
	}

	switch commandName {
	case "events":
		b.handleEvents(s, i)
	case "editevent":
		b.handleEditEvent(s, i)
	case "deleteevent":
		b.handleDeleteEvent(s, i)
	case "autodelete":
		b.handleAutoDelete(s, i)
	case "serverclock":
		b.handleServerClock(s, i)
	case "timezone":
		b.handleTimezone(s, i)
	case "setchannel":
		b.handleSetChannel(s, i)
	case "tips":
		b.handleTips(s, i)
	default:
		log.Printf(formatLogMessage(i.GuildID, "Unknown command: "+commandName, "", ""))
		respondWithError(s, i, "Unknown command")
	}
}
