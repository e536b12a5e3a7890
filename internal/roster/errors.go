package roster

// RosterError is returned when a registration is rejected
type RosterError string

// Error implements the error interface
func (e RosterError) Error() string {
	return string(e)
}

const (
	ErrEmptyName        RosterError = "player name cannot be empty"
	ErrDuplicateName    RosterError = "player name already taken"
	ErrDuplicatePlayers RosterError = "players contain a duplicate name"
)
