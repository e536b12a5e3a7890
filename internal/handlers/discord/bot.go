package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/sotrh/bank/internal/dice"
	"github.com/sotrh/bank/internal/models"
	"github.com/sotrh/bank/internal/services/game"
	"github.com/sotrh/bank/internal/services/messaging"
	"golang.org/x/text/message"
)

// Roller throws the dice for players who ask the bot to roll for them
type Roller interface {
	RollFor(policy models.Policy, rollNumber int) (models.Roll, dice.Throw)
}

// Bot represents the Discord bot instance
type Bot struct {
	session          *discordgo.Session
	commands         map[string]CommandHandler
	commandIDs       map[string]string // Maps command name to command ID
	gameService      game.Service
	messagingService messaging.Service
	roller           Roller
	config           *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// DefaultSettings seed /bank new when it is given options
	DefaultSettings models.Settings

	// Services
	GameService      game.Service
	MessagingService messaging.Service
	Roller           Roller
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Roller == nil {
		return nil, errors.New("dice roller cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:          session,
		commands:         make(map[string]CommandHandler),
		commandIDs:       make(map[string]string),
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		roller:           cfg.Roller,
		config:           cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(NewBankCommand(b)); err != nil {
		return fmt.Errorf("failed to register bank command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop removes the registered commands and closes the Discord connection
func (b *Bot) Stop() error {
	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			log.Printf("Successfully deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord, for one guild when a
// guild ID is configured and globally otherwise
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	if b.config.GuildID != "" {
		log.Printf("Registering command %s for guild %s", cmd.GetName(), b.config.GuildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks on the game message
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	customID := i.MessageComponentData().CustomID

	existing, err := b.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{
		ChannelID: i.ChannelID,
	})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, nil)
	}
	g := existing.Game

	switch customID {
	case ButtonJoin:
		return b.handleJoinButton(ctx, s, i, g)
	case ButtonStart:
		return b.handleStartButton(ctx, s, i, g)
	case ButtonBank:
		return b.handleBankButton(ctx, s, i, g)
	case ButtonNext:
		return b.handleNextRoundButton(ctx, s, i, g)
	case ButtonAutoRoll:
		if err := b.checkTurn(g, i); err != nil {
			return b.respondWithGameError(ctx, s, i, err, g)
		}
		roll, throw := b.roller.RollFor(g.State.Settings.Policy, g.State.Round.RollCount()+1)
		return b.handleRoll(ctx, s, i, g, roll, fmt.Sprintf("🎲 %d + %d\n", throw.First, throw.Second))
	default:
		roll, ok := parseRollButton(customID)
		if !ok {
			return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
		}
		if err := b.checkTurn(g, i); err != nil {
			return b.respondWithGameError(ctx, s, i, err, g)
		}
		return b.handleRoll(ctx, s, i, g, roll, "")
	}
}

func (b *Bot) handleJoinButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game) error {
	name := playerName(i)
	if _, seated := seatOf(g.State, name); seated {
		msg, err := b.messagingService.GetJoinGameMessage(ctx, &messaging.GetJoinGameMessageInput{
			PlayerName:    name,
			GameStatus:    g.Status(),
			AlreadyJoined: true,
		})
		if err != nil {
			return err
		}
		return RespondWithEphemeralMessage(s, i, msg.Message)
	}

	out, err := b.gameService.RegisterPlayer(ctx, &game.RegisterPlayerInput{
		GameID:     g.ID,
		PlayerName: name,
	})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}

	msg, err := b.messagingService.GetJoinGameMessage(ctx, &messaging.GetJoinGameMessageInput{
		PlayerName: name,
		GameStatus: out.Game.Status(),
	})
	if err != nil {
		return err
	}

	return b.respondWithTable(s, i, out.Game, msg.Message)
}

func (b *Bot) handleStartButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game) error {
	if _, seated := seatOf(g.State, playerName(i)); !seated {
		return b.respondWithErrorType(ctx, s, i, messaging.ErrorTypeNotInGame)
	}

	out, err := b.gameService.StartGame(ctx, &game.StartGameInput{GameID: g.ID})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}

	msg, err := b.messagingService.GetGameStatusMessage(ctx, &messaging.GetGameStatusMessageInput{
		GameStatus: out.Game.Status(),
	})
	if err != nil {
		return err
	}

	return b.respondWithTable(s, i, out.Game, msg.Message)
}

func (b *Bot) handleRoll(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game, roll models.Roll, prefix string) error {
	out, err := b.gameService.SubmitRoll(ctx, &game.SubmitRollInput{
		GameID:     g.ID,
		Roll:       roll,
		PlayerName: playerName(i),
	})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}

	pot := out.Game.State.Round.Pot
	if out.Record != nil && out.Outcome == models.OutcomeBusted {
		pot = out.Record.Pot
	}

	msg, err := b.messagingService.GetRollResultMessage(ctx, &messaging.GetRollResultMessageInput{
		PlayerName: out.Roller.Name,
		Roll:       roll,
		Outcome:    out.Outcome,
		Pot:        pot,
	})
	if err != nil {
		return err
	}

	note := prefix + fmt.Sprintf("**%s**\n%s", msg.Title, msg.Message)
	note, err = b.withGameOver(ctx, out.Game, note)
	if err != nil {
		return err
	}

	return b.respondWithTable(s, i, out.Game, note)
}

func (b *Bot) handleBankButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game) error {
	if err := b.checkTurn(g, i); err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}

	out, err := b.gameService.SubmitBank(ctx, &game.SubmitBankInput{
		GameID:     g.ID,
		PlayerName: playerName(i),
	})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}
	if len(out.Banks) == 0 {
		return b.respondWithTable(s, i, out.Game, "")
	}

	input := &messaging.GetBankMessageInput{
		PlayerName: out.Banks[0].PlayerName,
		Amount:     out.Banks[0].Amount,
	}
	if len(out.Banks) > 1 {
		input.LastPlayerName = out.Banks[1].PlayerName
	}

	msg, err := b.messagingService.GetBankMessage(ctx, input)
	if err != nil {
		return err
	}

	note := fmt.Sprintf("**%s**\n%s", msg.Title, msg.Message)
	note, err = b.withGameOver(ctx, out.Game, note)
	if err != nil {
		return err
	}

	return b.respondWithTable(s, i, out.Game, note)
}

func (b *Bot) handleNextRoundButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game) error {
	if _, seated := seatOf(g.State, playerName(i)); !seated {
		return b.respondWithErrorType(ctx, s, i, messaging.ErrorTypeNotInGame)
	}

	out, err := b.gameService.AdvanceRound(ctx, &game.AdvanceRoundInput{
		GameID:     g.ID,
		PlayerName: playerName(i),
	})
	if err != nil {
		return b.respondWithGameError(ctx, s, i, err, g)
	}

	note := ""
	if out.Advanced {
		if current, ok := out.Game.State.CurrentPlayer(); ok {
			note = fmt.Sprintf("Round %d! **%s** opens.", out.Game.State.Round.Number, current.Name)
		}
	}
	return b.respondWithTable(s, i, out.Game, note)
}

// withGameOver appends the winners announcement once the game has ended
func (b *Bot) withGameOver(ctx context.Context, g *models.Game, note string) (string, error) {
	if !g.State.GameOver {
		return note, nil
	}

	var score uint
	if len(g.State.Winners) > 0 {
		if winner, ok := g.State.Player(g.State.Winners[0]); ok {
			score = winner.Score
		}
	}

	msg, err := b.messagingService.GetGameOverMessage(ctx, &messaging.GetGameOverMessageInput{
		WinnerNames: winnerNames(g.State),
		Score:       score,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\n**%s**\n%s", note, msg.Title, msg.Message), nil
}

// checkTurn rejects clicks against the table the user was looking at. The
// game service repeats the turn check under its lock.
func (b *Bot) checkTurn(g *models.Game, i *discordgo.InteractionCreate) error {
	switch g.Status() {
	case models.GameStatusWaiting:
		return game.ErrGameNotStarted
	case models.GameStatusCompleted:
		return game.ErrWrongPhase
	}

	name := playerName(i)
	if _, seated := seatOf(g.State, name); !seated {
		return game.ErrNotInGame
	}
	if !g.State.Phase().IsAwaitingRoll() {
		return game.ErrWrongPhase
	}
	if current, ok := g.State.CurrentPlayer(); !ok || current.Name != name {
		return game.ErrNotYourTurn
	}
	return nil
}

// respondWithTable replaces the clicked game message with the new table
func (b *Bot) respondWithTable(s *discordgo.Session, i *discordgo.InteractionCreate, g *models.Game, note string) error {
	p := newPrinter(i.Locale)
	return RespondWithGameUpdate(s, i, renderGameEmbed(g, p, note), renderComponents(g))
}

func (b *Bot) respondWithGameError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error, g *models.Game) error {
	errType, known := errorTypeFor(err, g)
	if !known {
		log.Printf("Error handling interaction in channel %s: %v", i.ChannelID, err)
	}
	return b.respondWithErrorType(ctx, s, i, errType)
}

func (b *Bot) respondWithErrorType(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, errType messaging.ErrorType) error {
	msg, err := b.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: errType,
	})
	if err != nil {
		return err
	}
	return RespondWithEphemeralMessage(s, i, msg.Message)
}

// refreshGameMessage edits the game's channel message to show the table
func (b *Bot) refreshGameMessage(s *discordgo.Session, g *models.Game, p *message.Printer, note string) {
	if g.MessageID == "" {
		log.Printf("Game %s has no message ID, cannot update", g.ID)
		return
	}

	embeds := []*discordgo.MessageEmbed{renderGameEmbed(g, p, note)}
	components := renderComponents(g)

	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    g.ChannelID,
		ID:         g.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.Printf("Error updating game message: %v", err)
	}
}

func seatOf(state *models.GameState, name string) (int, bool) {
	for seat, p := range state.Players {
		if p.Name == name {
			return seat, true
		}
	}
	return 0, false
}
