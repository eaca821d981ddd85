package holdemtable

import (
	"fmt"
)

type CommandKind string

const (
	CommandKind_Pause    CommandKind = "pause"
	CommandKind_SitOut   CommandKind = "sit_out"
	CommandKind_SitIn    CommandKind = "sit_in"
	CommandKind_BuyIn    CommandKind = "buy_in"
	CommandKind_CashOut  CommandKind = "cash_out"
	CommandKind_Kick     CommandKind = "kick"
	CommandKind_Leave    CommandKind = "leave"
	CommandKind_Shutdown CommandKind = "shutdown"
)

// AdminCommand changes the table between hands.
type AdminCommand struct {
	Kind   CommandKind `json:"kind"`
	SeatID string      `json:"seat_id,omitempty"`
	Amount int64       `json:"amount,omitempty"` // buy_in / cash_out only
}

func PauseCommand() AdminCommand {
	return AdminCommand{Kind: CommandKind_Pause}
}

func SitOutCommand(seatID string) AdminCommand {
	return AdminCommand{Kind: CommandKind_SitOut, SeatID: seatID}
}

func SitInCommand(seatID string) AdminCommand {
	return AdminCommand{Kind: CommandKind_SitIn, SeatID: seatID}
}

func BuyInCommand(seatID string, amount int64) AdminCommand {
	return AdminCommand{Kind: CommandKind_BuyIn, SeatID: seatID, Amount: amount}
}

func CashOutCommand(seatID string, amount int64) AdminCommand {
	return AdminCommand{Kind: CommandKind_CashOut, SeatID: seatID, Amount: amount}
}

func KickCommand(seatID string) AdminCommand {
	return AdminCommand{Kind: CommandKind_Kick, SeatID: seatID}
}

func LeaveCommand(seatID string) AdminCommand {
	return AdminCommand{Kind: CommandKind_Leave, SeatID: seatID}
}

func ShutdownCommand() AdminCommand {
	return AdminCommand{Kind: CommandKind_Shutdown}
}

func (c AdminCommand) NeedsSeat() bool {
	switch c.Kind {
	case CommandKind_Pause, CommandKind_Shutdown:
		return false
	}
	return true
}

func (c AdminCommand) String() string {
	if !c.NeedsSeat() {
		return string(c.Kind)
	}
	if c.Amount > 0 {
		return fmt.Sprintf("%s(%s, %d)", c.Kind, c.SeatID, c.Amount)
	}
	return fmt.Sprintf("%s(%s)", c.Kind, c.SeatID)
}

// Validate checks the command shape only, seats are resolved by the engine.
func (c AdminCommand) Validate(minDenomination int64) error {
	switch c.Kind {
	case CommandKind_Pause, CommandKind_Shutdown,
		CommandKind_SitOut, CommandKind_SitIn,
		CommandKind_Kick, CommandKind_Leave:
	case CommandKind_BuyIn, CommandKind_CashOut:
		if c.Amount <= 0 {
			return fmt.Errorf("%w: %s amount must be positive", ErrInvalidBuyIn, c.Kind)
		}
		if minDenomination > 0 && c.Amount%minDenomination != 0 {
			return fmt.Errorf("%w: %s amount must be a multiple of %d", ErrInvalidBuyIn, c.Kind, minDenomination)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, c.Kind)
	}

	if c.NeedsSeat() && c.SeatID == "" {
		return fmt.Errorf("%w: %s needs a seat", ErrInvalidCommand, c.Kind)
	}
	return nil
}
