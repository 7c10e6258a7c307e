package game

import (
	"errors"
	"fmt"

	"github.com/eypacha/drawandroll/internal/game/rules"
)

// Reasons an action can be rejected. Match them with errors.Is.
var (
	ErrWrongPhase            = errors.New("wrong phase")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrSlotOccupied          = errors.New("slot occupied")
	ErrSlotEmpty             = errors.New("slot empty")
	ErrSlotOutOfRange        = errors.New("slot out of range")
	ErrBoardFull             = errors.New("board full")
	ErrEquipmentCap          = errors.New("equipment cap reached")
	ErrWeaponCap             = errors.New("weapon cap reached")
	ErrWrongCardType         = errors.New("wrong card type")
	ErrCardNotInHand         = errors.New("card not in hand")
	ErrHeroFullHealth        = errors.New("hero at full health")
	ErrDiscardCount          = errors.New("wrong discard count")
	ErrCannotAttack          = errors.New("hero cannot attack")
	ErrNoDefender            = errors.New("no defender in slot")
)

// ActionError reports a rejected action. The match state is unchanged when
// one is returned.
type ActionError struct {
	Action  string
	Player  rules.PlayerID
	Reason  error
	Details string
}

func (e *ActionError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s by %s rejected: %v", e.Action, e.Player, e.Reason)
	}
	return fmt.Sprintf("%s by %s rejected: %v (%s)", e.Action, e.Player, e.Reason, e.Details)
}

func (e *ActionError) Unwrap() error {
	return e.Reason
}

func reject(action string, player rules.PlayerID, reason error, format string, args ...interface{}) error {
	return &ActionError{
		Action:  action,
		Player:  player,
		Reason:  reason,
		Details: fmt.Sprintf(format, args...),
	}
}
