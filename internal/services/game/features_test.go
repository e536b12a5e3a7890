package game

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/models"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeTableScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// tableContext carries one table through a scenario
type tableContext struct {
	controller *Controller
	state      *models.GameState
	before     *models.GameState
	err        error
}

func (tc *tableContext) reset() {
	tc.controller = NewController(&ControllerConfig{IDs: uuid.NewSequence("player")})
	tc.state = nil
	tc.before = nil
	tc.err = nil
}

func (tc *tableContext) newTable(settings models.Settings) error {
	state, err := tc.controller.NewGame(settings)
	if err != nil {
		return err
	}
	tc.state = state
	return nil
}

func (tc *tableContext) aNewTable() error {
	return tc.newTable(models.DefaultSettings())
}

func (tc *tableContext) joinsTheTable(name string) error {
	state, _, err := tc.controller.Register(tc.state, name)
	if err != nil {
		return err
	}
	tc.state = state
	return nil
}

func (tc *tableContext) triesToJoinTheTable(name string) error {
	return tc.attempt(func() (*models.GameState, error) {
		state, _, err := tc.controller.Register(tc.state, name)
		return state, err
	})
}

func (tc *tableContext) theGameStarts() error {
	state, err := tc.controller.Begin(tc.state)
	if err != nil {
		return err
	}
	tc.state = state
	return nil
}

func (tc *tableContext) iTryToStartTheGame() error {
	return tc.attempt(func() (*models.GameState, error) {
		return tc.controller.Begin(tc.state)
	})
}

func (tc *tableContext) seat(settings models.Settings, names string) error {
	if err := tc.newTable(settings); err != nil {
		return err
	}
	for _, name := range strings.Split(names, ",") {
		if err := tc.joinsTheTable(strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	return tc.theGameStarts()
}

func (tc *tableContext) aGameWithPlayers(names string) error {
	return tc.seat(models.DefaultSettings(), names)
}

func (tc *tableContext) aGameWithPlayersUsingRules(names, rules string) error {
	policy, ok := models.PolicyByName(rules)
	if !ok {
		return fmt.Errorf("unknown rules %q", rules)
	}
	return tc.seat(models.Settings{TargetScore: models.DefaultTargetScore, Policy: policy}, names)
}

func (tc *tableContext) aGameToPointsWithPlayers(target int, names string) error {
	return tc.seat(models.Settings{TargetScore: uint(target), Policy: models.DefaultPolicy()}, names)
}

func (tc *tableContext) expectTurn(name string) error {
	current, ok := tc.state.CurrentPlayer()
	if !ok || current.Name != name {
		return fmt.Errorf("expected %s to be rolling, got %q", name, current.Name)
	}
	return nil
}

func (tc *tableContext) submit(name string, roll models.Roll) error {
	if err := tc.expectTurn(name); err != nil {
		return err
	}
	state, err := tc.controller.SubmitRoll(tc.state, roll)
	if err != nil {
		return err
	}
	tc.state = state
	return nil
}

func (tc *tableContext) rolls(name string, value int) error {
	return tc.submit(name, models.Sum(value))
}

func (tc *tableContext) rollsDoubles(name string) error {
	return tc.submit(name, models.DoublesRoll)
}

func (tc *tableContext) banks(name string) error {
	if err := tc.expectTurn(name); err != nil {
		return err
	}
	state, err := tc.controller.SubmitBank(tc.state)
	if err != nil {
		return err
	}
	tc.state = state
	return nil
}

func (tc *tableContext) theRollerTriesToRoll(value int) error {
	return tc.attempt(func() (*models.GameState, error) {
		return tc.controller.SubmitRoll(tc.state, models.Sum(value))
	})
}

func (tc *tableContext) theRollerTriesToRollDoubles() error {
	return tc.attempt(func() (*models.GameState, error) {
		return tc.controller.SubmitRoll(tc.state, models.DoublesRoll)
	})
}

func (tc *tableContext) theRoundIsAdvanced() error {
	tc.before = tc.state.Clone()
	tc.state = tc.controller.AdvanceRound(tc.state)
	return nil
}

// attempt runs a call that may be rejected, keeping a copy of the state it
// started from
func (tc *tableContext) attempt(call func() (*models.GameState, error)) error {
	tc.before = tc.state.Clone()
	state, err := call()
	tc.err = err
	if err == nil {
		tc.state = state
	}
	return nil
}

func (tc *tableContext) thePhaseIs(phase string) error {
	if got := string(tc.state.Phase()); got != phase {
		return fmt.Errorf("expected phase %s, got %s", phase, got)
	}
	return nil
}

func (tc *tableContext) itIsRound(number int) error {
	if tc.state.Round.Number != number {
		return fmt.Errorf("expected round %d, got %d", number, tc.state.Round.Number)
	}
	return nil
}

func (tc *tableContext) thePotIs(pot int) error {
	if tc.state.Round.Pot != uint(pot) {
		return fmt.Errorf("expected pot %d, got %d", pot, tc.state.Round.Pot)
	}
	return nil
}

func (tc *tableContext) itIsTurn(name string) error {
	return tc.expectTurn(name)
}

func (tc *tableContext) seatOf(name string) (int, error) {
	for i, p := range tc.state.Players {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no player named %s", name)
}

func (tc *tableContext) hasPoints(name string, points int) error {
	seat, err := tc.seatOf(name)
	if err != nil {
		return err
	}
	if got := tc.state.Players[seat].Score; got != uint(points) {
		return fmt.Errorf("expected %s to have %d points, got %d", name, points, got)
	}
	return nil
}

func (tc *tableContext) noPlayerHasScored() error {
	for _, p := range tc.state.Players {
		if p.Score != 0 {
			return fmt.Errorf("%s has %d points", p.Name, p.Score)
		}
	}
	return nil
}

func (tc *tableContext) isStillRolling(name string) error {
	seat, err := tc.seatOf(name)
	if err != nil {
		return err
	}
	if !tc.state.Round.IsActive(seat) {
		return fmt.Errorf("expected %s to be in the round", name)
	}
	return nil
}

func (tc *tableContext) isOutOfTheRound(name string) error {
	seat, err := tc.seatOf(name)
	if err != nil {
		return err
	}
	if tc.state.Round.IsActive(seat) {
		return fmt.Errorf("expected %s to have banked", name)
	}
	return nil
}

func (tc *tableContext) theCallFailsWith(message string) error {
	if tc.err == nil {
		return fmt.Errorf("expected an error containing %q", message)
	}
	if !strings.Contains(tc.err.Error(), message) {
		return fmt.Errorf("expected an error containing %q, got %q", message, tc.err.Error())
	}
	return nil
}

func (tc *tableContext) theTableHasPlayers(n int) error {
	if len(tc.state.Players) != n {
		return fmt.Errorf("expected %d players, got %d", n, len(tc.state.Players))
	}
	return nil
}

func (tc *tableContext) theGameStateIsUnchanged() error {
	if !reflect.DeepEqual(tc.before, tc.state) {
		return fmt.Errorf("state changed:\nbefore: %s\nafter:  %s", tc.before, tc.state)
	}
	return nil
}

func (tc *tableContext) theGameIsOver() error {
	if !tc.state.GameOver {
		return fmt.Errorf("expected the game to be over")
	}
	return nil
}

func (tc *tableContext) theWinnersAre(names string) error {
	var got []string
	for _, id := range tc.state.Winners {
		p, ok := tc.state.Player(id)
		if !ok {
			return fmt.Errorf("winner %s is not seated", id)
		}
		got = append(got, p.Name)
	}
	if strings.Join(got, ", ") != names {
		return fmt.Errorf("expected winners %s, got %s", names, strings.Join(got, ", "))
	}
	return nil
}

func initializeTableScenario(sc *godog.ScenarioContext) {
	tc := &tableContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Setup
	sc.Step(`^a new table$`, tc.aNewTable)
	sc.Step(`^"([^"]*)" joins the table$`, tc.joinsTheTable)
	sc.Step(`^"([^"]*)" tries to join the table$`, tc.triesToJoinTheTable)
	sc.Step(`^the game starts$`, tc.theGameStarts)
	sc.Step(`^I try to start the game$`, tc.iTryToStartTheGame)
	sc.Step(`^a game with players "([^"]*)"$`, tc.aGameWithPlayers)
	sc.Step(`^a game with players "([^"]*)" using the "([^"]*)" rules$`, tc.aGameWithPlayersUsingRules)
	sc.Step(`^a game to (\d+) points with players "([^"]*)"$`, tc.aGameToPointsWithPlayers)

	// Play
	sc.Step(`^"([^"]*)" rolls (\d+)$`, tc.rolls)
	sc.Step(`^"([^"]*)" rolls doubles$`, tc.rollsDoubles)
	sc.Step(`^"([^"]*)" banks$`, tc.banks)
	sc.Step(`^the roller tries to roll (\d+)$`, tc.theRollerTriesToRoll)
	sc.Step(`^the roller tries to roll doubles$`, tc.theRollerTriesToRollDoubles)
	sc.Step(`^the round is advanced$`, tc.theRoundIsAdvanced)

	// Checks
	sc.Step(`^the phase is "([^"]*)"$`, tc.thePhaseIs)
	sc.Step(`^it is round (\d+)$`, tc.itIsRound)
	sc.Step(`^the pot is (\d+)$`, tc.thePotIs)
	sc.Step(`^it is "([^"]*)"'s turn$`, tc.itIsTurn)
	sc.Step(`^"([^"]*)" has (\d+) points$`, tc.hasPoints)
	sc.Step(`^no player has scored$`, tc.noPlayerHasScored)
	sc.Step(`^"([^"]*)" is still rolling$`, tc.isStillRolling)
	sc.Step(`^"([^"]*)" is out of the round$`, tc.isOutOfTheRound)
	sc.Step(`^the call fails with "([^"]*)"$`, tc.theCallFailsWith)
	sc.Step(`^the table has (\d+) players?$`, tc.theTableHasPlayers)
	sc.Step(`^the game state is unchanged$`, tc.theGameStateIsUnchanged)
	sc.Step(`^the game is over$`, tc.theGameIsOver)
	sc.Step(`^the winners are "([^"]*)"$`, tc.theWinnersAre)
}
