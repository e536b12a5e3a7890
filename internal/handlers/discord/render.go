package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sotrh/bank/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
	colorGold  = 0xf1c40f
	colorBlue  = 0x3498db
)

// Button IDs
const (
	ButtonJoin     = "bank_join"
	ButtonStart    = "bank_start"
	ButtonDoubles  = "bank_doubles"
	ButtonAutoRoll = "bank_auto_roll"
	ButtonBank     = "bank_bank"
	ButtonNext     = "bank_next_round"

	rollButtonPrefix = "bank_roll_"
)

// keypadRowSize is how many buttons Discord allows in one action row
const keypadRowSize = 5

func rollButtonID(value int) string {
	return rollButtonPrefix + strconv.Itoa(value)
}

// parseRollButton maps a keypad button to the roll it submits
func parseRollButton(customID string) (models.Roll, bool) {
	if customID == ButtonDoubles {
		return models.DoublesRoll, true
	}
	if !strings.HasPrefix(customID, rollButtonPrefix) {
		return models.Roll{}, false
	}
	value, err := strconv.Atoi(strings.TrimPrefix(customID, rollButtonPrefix))
	if err != nil {
		return models.Roll{}, false
	}
	roll := models.Sum(value)
	return roll, roll.Valid()
}

// newPrinter returns a number formatter for the interaction's locale,
// falling back to English
func newPrinter(locale discordgo.Locale) *message.Printer {
	tag, err := language.Parse(string(locale))
	if err != nil || locale == "" {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// renderGameEmbed renders the table: pot, turn, rolls and scoreboard.
// The note, when set, is shown as the description.
func renderGameEmbed(game *models.Game, p *message.Printer, note string) *discordgo.MessageEmbed {
	state := game.State
	embed := &discordgo.MessageEmbed{
		Description: note,
		Color:       colorGreen,
	}

	switch game.Status() {
	case models.GameStatusWaiting:
		embed.Title = "Bank: waiting for players"
		if embed.Description == "" {
			embed.Description = "Press Join to take a seat. Anyone at the table can start once two players have joined."
		}
		embed.Color = colorBlue
	case models.GameStatusCompleted:
		embed.Title = fmt.Sprintf("Bank: game over after round %d", state.Round.Number)
		embed.Color = colorGold
	default:
		embed.Title = fmt.Sprintf("Bank: round %d", state.Round.Number)
		if state.Phase() == models.PhaseBusted {
			embed.Color = colorRed
		}
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Goal",
		Value:  renderGoal(state.Settings, p),
		Inline: true,
	})

	if !state.Phase().IsSetup() {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{
				Name:   "Pot",
				Value:  p.Sprintf("%d", state.Round.Pot),
				Inline: true,
			},
			&discordgo.MessageEmbedField{
				Name:   "Rolls",
				Value:  renderRolls(state),
				Inline: true,
			},
		)
	}

	if current, ok := state.CurrentPlayer(); ok && state.Phase().IsAwaitingRoll() && !state.GameOver {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Up next",
			Value: fmt.Sprintf("**%s**, roll or bank", current.Name),
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Players",
		Value: renderScoreboard(state, p),
	})

	if state.GameOver {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Winners",
			Value: strings.Join(winnerNames(state), ", "),
		})
	}

	return embed
}

func renderGoal(settings models.Settings, p *message.Printer) string {
	var parts []string
	if settings.TargetScore > 0 {
		parts = append(parts, p.Sprintf("first to %d", settings.TargetScore))
	}
	if settings.MaxRounds > 0 {
		parts = append(parts, p.Sprintf("%d rounds", settings.MaxRounds))
	}
	return strings.Join(parts, " or ")
}

// renderRolls shows the roll count and whether the next roll can bust
func renderRolls(state *models.GameState) string {
	n := state.Round.RollCount()
	policy := state.Settings.Policy

	status := fmt.Sprintf("%d rolled", n)
	if state.Phase().IsAwaitingRoll() {
		if policy.IsSafe(n + 1) {
			status += ", next is safe"
		} else {
			status += fmt.Sprintf(", %d busts", policy.BustValue)
		}
	}

	if n == 0 {
		return status
	}

	// last few rolls, newest last
	rolls := state.Round.Rolls
	if len(rolls) > 6 {
		rolls = rolls[len(rolls)-6:]
	}
	values := make([]string, len(rolls))
	for i, r := range rolls {
		values[i] = r.String()
	}
	return status + "\n" + strings.Join(values, " · ")
}

func renderScoreboard(state *models.GameState, p *message.Printer) string {
	if len(state.Players) == 0 {
		return "Nobody yet"
	}

	var b strings.Builder
	for seat, player := range state.Players {
		marker := "▫️"
		switch {
		case state.Phase().IsSetup():
		case !state.Round.IsActive(seat):
			marker = "💰"
		case seat == state.Round.CurrentRoller && state.Phase().IsAwaitingRoll():
			marker = "🎲"
		}
		b.WriteString(p.Sprintf("%s **%s** %d\n", marker, player.Name, player.Score))
	}
	return b.String()
}

func winnerNames(state *models.GameState) []string {
	names := make([]string, 0, len(state.Winners))
	for _, id := range state.Winners {
		if player, ok := state.Player(id); ok {
			names = append(names, player.Name)
		}
	}
	return names
}

// renderComponents returns the buttons for the game's current position
func renderComponents(game *models.Game) []discordgo.MessageComponent {
	state := game.State

	switch {
	case game.Status() == models.GameStatusWaiting:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Join", Style: discordgo.SuccessButton, CustomID: ButtonJoin},
					discordgo.Button{Label: "Start", Style: discordgo.PrimaryButton, CustomID: ButtonStart},
				},
			},
		}
	case state.GameOver:
		return []discordgo.MessageComponent{}
	case state.Phase().IsTerminal():
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Next round", Style: discordgo.PrimaryButton, CustomID: ButtonNext},
				},
			},
		}
	default:
		return renderKeypad(state)
	}
}

// renderKeypad lays out the sums 2 to 12 followed by the action buttons,
// five to a row
func renderKeypad(state *models.GameState) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for v := models.MinRollValue; v <= models.MaxRollValue; v++ {
		buttons = append(buttons, discordgo.Button{
			Label:    strconv.Itoa(v),
			Style:    discordgo.SecondaryButton,
			CustomID: rollButtonID(v),
		})
	}

	next := state.Round.RollCount() + 1
	buttons = append(buttons,
		discordgo.Button{
			Label:    "Doubles!",
			Style:    discordgo.SuccessButton,
			CustomID: ButtonDoubles,
			Disabled: !state.Settings.Policy.DoublesAllowed(next),
		},
		discordgo.Button{Label: "Roll for me", Style: discordgo.PrimaryButton, CustomID: ButtonAutoRoll},
		discordgo.Button{Label: "Bank", Style: discordgo.DangerButton, CustomID: ButtonBank},
	)

	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += keypadRowSize {
		end := start + keypadRowSize
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[start:end]})
	}
	return rows
}

// renderHistoryEmbed lists finished rounds, oldest first
func renderHistoryEmbed(records []*models.RoundRecord, p *message.Printer) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Round history",
		Color: colorBlue,
	}

	if len(records) == 0 {
		embed.Description = "No rounds finished yet."
		return embed
	}

	for _, record := range records {
		var value string
		if record.Outcome == models.OutcomeBusted {
			value = p.Sprintf("Busted after %d rolls, %d lost", len(record.Rolls), record.Pot)
		} else {
			value = p.Sprintf("Pot of %d after %d rolls", record.Pot, len(record.Rolls))
		}
		for _, bank := range record.Banks {
			value += p.Sprintf("\n%s banked %d", bank.PlayerName, bank.Amount)
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Round %d", record.Number),
			Value: value,
		})
	}

	// Discord caps an embed at 25 fields
	if len(embed.Fields) > 25 {
		embed.Fields = embed.Fields[len(embed.Fields)-25:]
	}
	return embed
}
