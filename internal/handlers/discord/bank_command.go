package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/sotrh/bank/internal/models"
	"github.com/sotrh/bank/internal/services/game"
	"github.com/sotrh/bank/internal/services/messaging"
)

// BankCommand handles the /bank command
type BankCommand struct {
	BaseCommand
	bot *Bot
}

func optionBound(v float64) *float64 {
	return &v
}

// NewBankCommand creates a new bank command handler
func NewBankCommand(bot *Bot) *BankCommand {
	return &BankCommand{
		BaseCommand: BaseCommand{
			Name:        "bank",
			Description: "Play Bank, the push-your-luck dice game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "new",
					Description: "Open a new table in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "target",
							Description: "Score that wins the game",
							MinValue:    optionBound(1),
							MaxValue:    1000000,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "rounds",
							Description: "Number of rounds to play",
							MinValue:    optionBound(1),
							MaxValue:    100,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "rules",
							Description: "Rule set",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Default: 7 busts from the 3rd roll", Value: models.PolicyDefault},
								{Name: "Classic: 7 is worth 70 in the first 3 rolls", Value: models.PolicyClassic},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Take a seat at the table",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the game",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the table",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show how each round ended",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "abandon",
					Description: "Abandon the current game",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the bank command
func (c *BankCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx := context.Background()
	sub := data.Options[0]

	switch sub.Name {
	case "new":
		return c.handleNew(ctx, s, i, sub.Options)
	case "join":
		return c.handleJoin(ctx, s, i)
	case "start":
		return c.handleStart(ctx, s, i)
	case "status":
		return c.handleStatus(ctx, s, i)
	case "history":
		return c.handleHistory(ctx, s, i)
	case "abandon":
		return c.handleAbandon(ctx, s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

// settingsFromOptions applies /bank new options over the defaults. It returns
// nil when no options were given so the service defaults apply.
func settingsFromOptions(defaults models.Settings, options []*discordgo.ApplicationCommandInteractionDataOption) (*models.Settings, error) {
	if len(options) == 0 {
		return nil, nil
	}

	settings := defaults
	for _, opt := range options {
		switch opt.Name {
		case "target":
			settings.TargetScore = uint(opt.IntValue())
		case "rounds":
			settings.MaxRounds = int(opt.IntValue())
			// a round limit on its own plays every round
			if !hasOption(options, "target") {
				settings.TargetScore = 0
			}
		case "rules":
			policy, ok := models.PolicyByName(opt.StringValue())
			if !ok {
				return nil, fmt.Errorf("unknown rules %q", opt.StringValue())
			}
			settings.Policy = policy
		}
	}
	return &settings, nil
}

func hasOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, opt := range options {
		if opt.Name == name {
			return true
		}
	}
	return false
}

// handleNew opens a table, seats the creator and posts the game message
func (c *BankCommand) handleNew(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	settings, err := settingsFromOptions(c.bot.config.DefaultSettings, options)
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	creator := interactionUser(i)
	creatorID := ""
	if creator != nil {
		creatorID = creator.ID
	}

	createOutput, err := c.bot.gameService.CreateGame(ctx, &game.CreateGameInput{
		ChannelID: i.ChannelID,
		CreatorID: creatorID,
		Settings:  settings,
	})
	if err != nil {
		if errors.Is(err, game.ErrInvalidSettings) {
			return RespondWithError(s, i, err.Error())
		}
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}

	joinOutput, err := c.bot.gameService.RegisterPlayer(ctx, &game.RegisterPlayerInput{
		GameID:     createOutput.Game.ID,
		PlayerName: playerName(i),
	})
	if err != nil {
		log.Printf("Error seating creator: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to join game: %v", err))
	}
	g := joinOutput.Game

	p := newPrinter(i.Locale)
	msg, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderGameEmbed(g, p, "")},
		Components: renderComponents(g),
	})
	if err != nil {
		log.Printf("Error sending message: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to send game message: %v", err))
	}

	_, err = c.bot.gameService.UpdateGameMessage(ctx, &game.UpdateGameMessageInput{
		GameID:    g.ID,
		MessageID: msg.ID,
	})
	if err != nil {
		// the table still works from /bank status, just without live edits
		log.Printf("Error updating game message: %v", err)
	}

	return RespondWithEphemeralMessage(s, i, "New game created! You've been added as the first player.")
}

func (c *BankCommand) handleJoin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	existing, err := c.bot.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{ChannelID: i.ChannelID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}

	name := playerName(i)
	out, err := c.bot.gameService.RegisterPlayer(ctx, &game.RegisterPlayerInput{
		GameID:     existing.Game.ID,
		PlayerName: name,
	})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, existing.Game)
	}

	c.bot.refreshGameMessage(s, out.Game, newPrinter(i.Locale), "")

	msg, err := c.bot.messagingService.GetJoinGameMessage(ctx, &messaging.GetJoinGameMessageInput{
		PlayerName: name,
		GameStatus: out.Game.Status(),
	})
	if err != nil {
		return err
	}
	return RespondWithEphemeralMessage(s, i, msg.Message)
}

func (c *BankCommand) handleStart(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	existing, err := c.bot.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{ChannelID: i.ChannelID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}

	out, err := c.bot.gameService.StartGame(ctx, &game.StartGameInput{GameID: existing.Game.ID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, existing.Game)
	}

	c.bot.refreshGameMessage(s, out.Game, newPrinter(i.Locale), "")
	return RespondWithEphemeralMessage(s, i, "Game started! Use the keypad on the game message.")
}

func (c *BankCommand) handleStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	existing, err := c.bot.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{ChannelID: i.ChannelID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}

	msg, err := c.bot.messagingService.GetGameStatusMessage(ctx, &messaging.GetGameStatusMessageInput{
		GameStatus: existing.Game.Status(),
	})
	if err != nil {
		return err
	}

	return RespondWithEmbed(s, i, renderGameEmbed(existing.Game, newPrinter(i.Locale), msg.Message))
}

func (c *BankCommand) handleHistory(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	existing, err := c.bot.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{ChannelID: i.ChannelID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}

	history, err := c.bot.gameService.GetRoundHistory(ctx, &game.GetRoundHistoryInput{GameID: existing.Game.ID})
	if err != nil {
		log.Printf("Error getting round history: %v", err)
		return RespondWithError(s, i, "Failed to load the round history.")
	}

	return RespondWithEmbed(s, i, renderHistoryEmbed(history.Records, newPrinter(i.Locale)))
}

func (c *BankCommand) handleAbandon(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	existing, err := c.bot.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{ChannelID: i.ChannelID})
	if err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, nil)
	}
	g := existing.Game

	if _, err := c.bot.gameService.AbandonGame(ctx, &game.AbandonGameInput{GameID: g.ID}); err != nil {
		return c.bot.respondWithGameError(ctx, s, i, err, g)
	}

	if g.MessageID != "" {
		embeds := []*discordgo.MessageEmbed{{
			Title:       "Bank: game abandoned",
			Description: fmt.Sprintf("Abandoned by %s.", playerName(i)),
			Color:       colorRed,
		}}
		components := []discordgo.MessageComponent{}
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    g.ChannelID,
			ID:         g.MessageID,
			Embeds:     &embeds,
			Components: &components,
		}); err != nil {
			log.Printf("Error updating abandoned game message: %v", err)
		}
	}

	return RespondWithMessage(s, i, "The game has been abandoned. Start a new one with /bank new.")
}
