package discord

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/models"
	"github.com/sotrh/bank/internal/services/game"
	"github.com/sotrh/bank/internal/services/messaging"
	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite
	controller *game.Controller
}

func (s *RenderTestSuite) SetupTest() {
	s.controller = game.NewController(&game.ControllerConfig{IDs: uuid.NewSequence("player")})
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

// table returns a stored game with Alice and Bob seated, started when asked
func (s *RenderTestSuite) table(settings models.Settings, start bool) *models.Game {
	state, err := s.controller.NewGame(settings)
	s.Require().NoError(err)
	for _, name := range []string{"Alice", "Bob"} {
		state, _, err = s.controller.Register(state, name)
		s.Require().NoError(err)
	}
	if start {
		state, err = s.controller.Begin(state)
		s.Require().NoError(err)
	}
	return &models.Game{ID: "game-1", ChannelID: "channel-1", MessageID: "message-1", State: state}
}

func (s *RenderTestSuite) roll(g *models.Game, values ...int) {
	for _, v := range values {
		next, err := s.controller.SubmitRoll(g.State, models.Sum(v))
		s.Require().NoError(err)
		g.State = next
	}
}

// customIDs flattens the buttons of every action row
func customIDs(components []discordgo.MessageComponent) [][]string {
	var rows [][]string
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		var ids []string
		for _, b := range row.Components {
			ids = append(ids, b.(discordgo.Button).CustomID)
		}
		rows = append(rows, ids)
	}
	return rows
}

func findButton(components []discordgo.MessageComponent, id string) (discordgo.Button, bool) {
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, b := range row.Components {
			if button := b.(discordgo.Button); button.CustomID == id {
				return button, true
			}
		}
	}
	return discordgo.Button{}, false
}

func (s *RenderTestSuite) TestParseRollButton() {
	tests := []struct {
		customID string
		want     models.Roll
		ok       bool
	}{
		{customID: "bank_roll_2", want: models.Sum(2), ok: true},
		{customID: "bank_roll_12", want: models.Sum(12), ok: true},
		{customID: ButtonDoubles, want: models.DoublesRoll, ok: true},
		{customID: "bank_roll_1", ok: false},
		{customID: "bank_roll_13", ok: false},
		{customID: "bank_roll_x", ok: false},
		{customID: ButtonBank, ok: false},
	}

	for _, tt := range tests {
		roll, ok := parseRollButton(tt.customID)
		s.Equal(tt.ok, ok, tt.customID)
		if tt.ok {
			s.Equal(tt.want, roll, tt.customID)
		}
	}
}

func (s *RenderTestSuite) TestKeypadButtonsRoundTrip() {
	for v := models.MinRollValue; v <= models.MaxRollValue; v++ {
		roll, ok := parseRollButton(rollButtonID(v))
		s.True(ok)
		s.Equal(models.Sum(v), roll)
	}
}

func (s *RenderTestSuite) TestWaitingTableShowsJoinAndStart() {
	g := s.table(models.DefaultSettings(), false)

	s.Equal([][]string{{ButtonJoin, ButtonStart}}, customIDs(renderComponents(g)))
}

func (s *RenderTestSuite) TestKeypadLayout() {
	g := s.table(models.DefaultSettings(), true)

	rows := customIDs(renderComponents(g))
	s.Require().Len(rows, 3)
	s.Equal([]string{"bank_roll_2", "bank_roll_3", "bank_roll_4", "bank_roll_5", "bank_roll_6"}, rows[0])
	s.Equal([]string{"bank_roll_7", "bank_roll_8", "bank_roll_9", "bank_roll_10", "bank_roll_11"}, rows[1])
	s.Equal([]string{"bank_roll_12", ButtonDoubles, ButtonAutoRoll, ButtonBank}, rows[2])

	doubles, ok := findButton(renderComponents(g), ButtonDoubles)
	s.Require().True(ok)
	s.False(doubles.Disabled)
}

func (s *RenderTestSuite) TestClassicDoublesDisabledDuringOpening() {
	settings := models.DefaultSettings()
	settings.Policy = models.ClassicPolicy()
	g := s.table(settings, true)

	doubles, ok := findButton(renderComponents(g), ButtonDoubles)
	s.Require().True(ok)
	s.True(doubles.Disabled)

	s.roll(g, 4, 5, 6)
	doubles, _ = findButton(renderComponents(g), ButtonDoubles)
	s.False(doubles.Disabled)
}

func (s *RenderTestSuite) TestBustedRoundShowsNextRound() {
	g := s.table(models.DefaultSettings(), true)
	s.roll(g, 5, 5, 7)
	s.Require().Equal(models.PhaseBusted, g.State.Phase())

	s.Equal([][]string{{ButtonNext}}, customIDs(renderComponents(g)))
	s.Equal(colorRed, renderGameEmbed(g, newPrinter(""), "").Color)
}

func (s *RenderTestSuite) TestGameOverHasNoButtons() {
	g := s.table(models.Settings{TargetScore: 10, Policy: models.DefaultPolicy()}, true)
	s.roll(g, 6, 6)
	next, err := s.controller.SubmitBank(g.State)
	s.Require().NoError(err)
	g.State = next
	s.Require().True(g.State.GameOver)

	s.Empty(renderComponents(g))

	embed := renderGameEmbed(g, newPrinter(""), "")
	s.Equal(colorGold, embed.Color)
	last := embed.Fields[len(embed.Fields)-1]
	s.Equal("Winners", last.Name)
	s.Equal("Alice, Bob", last.Value)
}

func (s *RenderTestSuite) TestEmbedShowsPotAndTurn() {
	g := s.table(models.DefaultSettings(), true)
	s.roll(g, 8)

	embed := renderGameEmbed(g, newPrinter(discordgo.EnglishUS), "")
	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	s.Equal("first to 500", fields["Goal"])
	s.Equal("8", fields["Pot"])
	s.Contains(fields["Rolls"], "1 rolled, next is safe")
	s.Contains(fields["Up next"], "Bob")
	s.Contains(fields["Players"], "🎲 **Bob** 0")
}

func (s *RenderTestSuite) TestPrinterGroupsDigits() {
	s.Equal("1,250", newPrinter(discordgo.EnglishUS).Sprintf("%d", 1250))
	s.Equal("1,250", newPrinter("").Sprintf("%d", 1250))
	s.Equal("1.250", newPrinter(discordgo.German).Sprintf("%d", 1250))
}

func (s *RenderTestSuite) TestHistoryEmbed() {
	records := []*models.RoundRecord{
		{Number: 1, Outcome: models.OutcomeBusted, Pot: 40, Rolls: []models.Roll{models.Sum(6), models.Sum(6), models.Sum(7)}},
		{Number: 2, Outcome: models.OutcomeRoundComplete, Pot: 1250, Rolls: []models.Roll{models.Sum(12)},
			Banks: []models.BankEntry{{PlayerName: "Alice", Amount: 1250}}},
	}

	embed := renderHistoryEmbed(records, newPrinter(discordgo.EnglishUS))
	s.Require().Len(embed.Fields, 2)
	s.Equal("Busted after 3 rolls, 40 lost", embed.Fields[0].Value)
	s.Equal("Pot of 1,250 after 1 rolls\nAlice banked 1,250", embed.Fields[1].Value)

	s.Equal("No rounds finished yet.", renderHistoryEmbed(nil, newPrinter("")).Description)
}

func (s *RenderTestSuite) TestHistoryEmbedKeepsLatestRounds() {
	var records []*models.RoundRecord
	for n := 1; n <= 30; n++ {
		records = append(records, &models.RoundRecord{Number: n, Outcome: models.OutcomeBusted})
	}

	embed := renderHistoryEmbed(records, newPrinter(""))
	s.Len(embed.Fields, 25)
	s.Equal("Round 6", embed.Fields[0].Name)
	s.Equal("Round 30", embed.Fields[24].Name)
}

func (s *RenderTestSuite) TestErrorTypeFor() {
	waiting := s.table(models.DefaultSettings(), false)
	playing := s.table(models.DefaultSettings(), true)
	busted := s.table(models.DefaultSettings(), true)
	s.roll(busted, 5, 5, 7)

	tests := []struct {
		err   error
		g     *models.Game
		want  messaging.ErrorType
		known bool
	}{
		{err: game.ErrNotInGame, want: messaging.ErrorTypeNotInGame, known: true},
		{err: game.ErrNotYourTurn, want: messaging.ErrorTypeNotYourTurn, known: true},
		{err: game.ErrGameNotFound, want: messaging.ErrorTypeNoGame, known: true},
		{err: fmt.Errorf("load: %w", game.ErrGameNotFound), want: messaging.ErrorTypeNoGame, known: true},
		{err: game.ErrGameAlreadyExists, want: messaging.ErrorTypeGameExists, known: true},
		{err: game.ErrGameNotStarted, want: messaging.ErrorTypeNotStarted, known: true},
		{err: game.ErrNotEnoughPlayers, want: messaging.ErrorTypeNotEnoughPlayers, known: true},
		{err: game.ErrDuplicateName, want: messaging.ErrorTypeDuplicateName, known: true},
		{err: game.ErrInvalidRoll, want: messaging.ErrorTypeInvalidRoll, known: true},
		{err: game.ErrWrongPhase, g: waiting, want: messaging.ErrorTypeNotStarted, known: true},
		{err: game.ErrWrongPhase, g: playing, want: messaging.ErrorTypeGameActive, known: true},
		{err: game.ErrWrongPhase, g: busted, want: messaging.ErrorTypeRoundOver, known: true},
		{err: fmt.Errorf("redis down"), want: "", known: false},
	}

	for _, tt := range tests {
		got, known := errorTypeFor(tt.err, tt.g)
		s.Equal(tt.known, known, tt.err.Error())
		s.Equal(tt.want, got, tt.err.Error())
	}
}

func (s *RenderTestSuite) TestSettingsFromOptions() {
	defaults := models.DefaultSettings()

	settings, err := settingsFromOptions(defaults, nil)
	s.Require().NoError(err)
	s.Nil(settings)

	settings, err = settingsFromOptions(defaults, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "target", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(300)},
		{Name: "rules", Type: discordgo.ApplicationCommandOptionString, Value: models.PolicyClassic},
	})
	s.Require().NoError(err)
	s.Equal(uint(300), settings.TargetScore)
	s.Equal(0, settings.MaxRounds)
	s.Equal(models.ClassicPolicy(), settings.Policy)

	settings, err = settingsFromOptions(defaults, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "rounds", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(10)},
	})
	s.Require().NoError(err)
	s.Equal(uint(0), settings.TargetScore)
	s.Equal(10, settings.MaxRounds)
	s.Equal(models.DefaultPolicy(), settings.Policy)

	settings, err = settingsFromOptions(defaults, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "rounds", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(10)},
		{Name: "target", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(200)},
	})
	s.Require().NoError(err)
	s.Equal(uint(200), settings.TargetScore)
	s.Equal(10, settings.MaxRounds)

	_, err = settingsFromOptions(defaults, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "rules", Type: discordgo.ApplicationCommandOptionString, Value: "house"},
	})
	s.Error(err)
}

func (s *RenderTestSuite) TestBankCommandDefinition() {
	cmd := NewBankCommand(nil).GetCommand()
	s.Equal("bank", cmd.Name)

	var names []string
	for _, opt := range cmd.Options {
		names = append(names, opt.Name)
	}
	s.Equal([]string{"new", "join", "start", "status", "history", "abandon"}, names)
}
