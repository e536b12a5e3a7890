package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sotrh/bank/internal/models"
)

// service implements the Service interface
type service struct {
	mu sync.Mutex

	// Random number generator for selecting random messages
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// pick selects a random message
func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}

// GetJoinGameMessage returns a message for when a player joins a game
func (s *service) GetJoinGameMessage(ctx context.Context, input *GetJoinGameMessageInput) (*GetJoinGameMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var messages []string
	if input.AlreadyJoined {
		switch input.GameStatus {
		case models.GameStatusWaiting:
			messages = []string{
				fmt.Sprintf("You're already at the table, %s. Sit tight until the dice come out.", input.PlayerName),
				"Patience! You're already on the roster.",
				"Double-dipping? You're already in this game!",
			}
		case models.GameStatusCompleted:
			messages = []string{
				"This game is over. Start another one with /bank new!",
			}
		default:
			messages = []string{
				"You're already in this game! The keypad is right there.",
				"Already on the team! No need to join twice.",
			}
		}
	} else {
		messages = []string{
			fmt.Sprintf("Welcome to the table, %s! Bank early, bank often.", input.PlayerName),
			fmt.Sprintf("A new challenger appears! %s pulls up a chair.", input.PlayerName),
			fmt.Sprintf("%s is in. Somebody's going to regret not banking.", input.PlayerName),
			fmt.Sprintf("%s joins the game. May your sevens come early.", input.PlayerName),
		}
	}

	return &GetJoinGameMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetGameStatusMessage returns a dynamic message based on the game status
func (s *service) GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch input.GameStatus {
	case models.GameStatusWaiting:
		messages = []string{
			"Gather 'round! The table is open and the pot is empty.",
			"Pull up a chair. Two players and we can start.",
			"The dice are warming up. Join before somebody starts the game!",
		}
	case models.GameStatusActive:
		messages = []string{
			"The pot is growing. Do you feel lucky?",
			"Roll, bank, or pray. Those are your options.",
			"Every roll makes the pot bigger. Every seven makes somebody cry.",
		}
	case models.GameStatusCompleted:
		messages = []string{
			"Game over! The dice have spoken.",
			"The final tally is in.",
			"Another game for the books.",
		}
	default:
		return &GetGameStatusMessageOutput{
			Message: "Bank is in progress. May the dice be kind.",
		}, nil
	}

	return &GetGameStatusMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetRollResultMessage returns a message for a roll that continued or busted the round
func (s *service) GetRollResultMessage(ctx context.Context, input *GetRollResultMessageInput) (*GetRollResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := input.PlayerName
	var titles, messages []string

	switch {
	case input.Outcome == models.OutcomeBusted:
		titles = []string{"BUST!", "Seven!", "Oof."}
		messages = []string{
			fmt.Sprintf("%s rolled a seven and %d points went up in smoke.", name, input.Pot),
			fmt.Sprintf("Should have banked. %s busts the round, %d points gone.", name, input.Pot),
			fmt.Sprintf("%s brings the round crashing down. Goodbye, %d points.", name, input.Pot),
		}
	case input.Roll.Doubles:
		titles = []string{"Doubles!", "Double trouble!", "Twice as nice!"}
		messages = []string{
			fmt.Sprintf("%s rolls doubles! The pot jumps to %d.", name, input.Pot),
			fmt.Sprintf("Doubles from %s. The pot is now %d.", name, input.Pot),
		}
	default:
		titles = []string{"Rolled!", "The dice land...", "Still alive!"}
		messages = []string{
			fmt.Sprintf("%s rolls %d. The pot is %d.", name, input.Roll.Value, input.Pot),
			fmt.Sprintf("A %d from %s brings the pot to %d.", input.Roll.Value, name, input.Pot),
			fmt.Sprintf("%s adds %d. Pot: %d. Still feeling brave?", name, input.Roll.Value, input.Pot),
		}
	}

	return &GetRollResultMessageOutput{
		Title:   s.pick(titles),
		Message: s.pick(messages),
	}, nil
}

// GetBankMessage returns a message for a player banking
func (s *service) GetBankMessage(ctx context.Context, input *GetBankMessageInput) (*GetBankMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	messages := []string{
		fmt.Sprintf("%s banks %d points and walks away.", input.PlayerName, input.Amount),
		fmt.Sprintf("Safe! %s locks in %d.", input.PlayerName, input.Amount),
		fmt.Sprintf("%s takes the money and runs: %d points.", input.PlayerName, input.Amount),
	}

	title := "Banked!"
	message := s.pick(messages)
	if input.LastPlayerName != "" {
		title = "Round over!"
		message += fmt.Sprintf(" %s is the last one standing and takes %d too.", input.LastPlayerName, input.Amount)
	}

	return &GetBankMessageOutput{
		Title:   title,
		Message: message,
	}, nil
}

// GetGameOverMessage returns a message announcing the winners
func (s *service) GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.WinnerNames) > 1 {
		names := strings.Join(input.WinnerNames, " and ")
		return &GetGameOverMessageOutput{
			Title:   "It's a tie!",
			Message: fmt.Sprintf("%s share the win with %d points.", names, input.Score),
		}, nil
	}

	winner := ""
	if len(input.WinnerNames) == 1 {
		winner = input.WinnerNames[0]
	}

	messages := []string{
		fmt.Sprintf("%s wins with %d points!", winner, input.Score),
		fmt.Sprintf("All hail %s, master of the bank, with %d points.", winner, input.Score),
		fmt.Sprintf("%s knew when to stop. %d points takes the game.", winner, input.Score),
	}

	return &GetGameOverMessageOutput{
		Title:   "Game over!",
		Message: s.pick(messages),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var messages []string
	switch input.ErrorType {
	case ErrorTypeNoGame:
		messages = []string{
			"There's no game in this channel. Start one with /bank new.",
			"No table here yet. Try /bank new.",
		}
	case ErrorTypeGameActive:
		messages = []string{
			"This game is already rolling! Catch the next one.",
			"Too late, hotshot! The dice are already in motion.",
		}
	case ErrorTypeGameCompleted:
		messages = []string{
			"This game is already over! Start a new one with /bank new.",
			"Game over! But you can always start another.",
		}
	case ErrorTypeGameExists:
		messages = []string{
			"There's already a game in this channel. Finish it or /bank abandon it.",
		}
	case ErrorTypeNotStarted:
		messages = []string{
			"Hold on, the game hasn't started yet.",
			"Nobody rolls until someone presses start.",
		}
	case ErrorTypeNotEnoughPlayers:
		messages = []string{
			"Bank needs at least two players. Find a friend!",
			"Playing alone? You need at least one more player.",
		}
	case ErrorTypeDuplicateName:
		messages = []string{
			"Player name already taken. Pick another one.",
		}
	case ErrorTypeNotYourTurn:
		messages = []string{
			"Patience! It's not your turn yet.",
			"Hold your horses! Someone else is rolling now.",
		}
	case ErrorTypeNotInGame:
		messages = []string{
			"You're not at this table. Join before the game starts next time.",
		}
	case ErrorTypeInvalidRoll:
		messages = []string{
			"That roll doesn't count here. Check the rules and try again.",
			"The dice don't do that. Try another value.",
		}
	case ErrorTypeRoundOver:
		messages = []string{
			"This round is over. Press Next round to keep going.",
		}
	default:
		messages = []string{
			"Something went wrong! Try again later.",
			"Oops! The dice got confused. Try again.",
		}
	}

	return &GetErrorMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}
