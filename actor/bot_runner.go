package actor

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/weedbox/timebank"

	"github.com/weedbox/holdemtable"
)

// TableActions is the part of a table engine a bot plays with.
type TableActions interface {
	PlayerAct(seatID string, total int64) error
	PlayerFold(seatID string) error
	PlayerReady(seatID string) error
}

type ActionProbability struct {
	Action string
	Weight float64
}

const (
	Action_Check = "check"
	Action_Call  = "call"
	Action_Raise = "raise"
	Action_AllIn = "allin"
	Action_Fold  = "fold"
	Action_Ready = "ready"
)

var (
	defaultActionProbabilities = []ActionProbability{
		{Action: Action_Check, Weight: 0.3},
		{Action: Action_Call, Weight: 0.4},
		{Action: Action_Raise, Weight: 0.15},
		{Action: Action_AllIn, Weight: 0.05},
		{Action: Action_Fold, Weight: 0.1},
	}
)

type BotRunnerOpt func(*botRunner)

type botRunner struct {
	mu                  sync.Mutex
	actions             TableActions
	seatID              string
	maxThinkingTime     time.Duration
	rnd                 *rand.Rand
	probabilities       []ActionProbability
	timebank            *timebank.TimeBank
	logger              *slog.Logger
	lastTurnKey         string
	lastReadyHand       int
	onActionFailed      func(seatID string, err error)
	onTableActionPlayed func(seatID string, action string, total int64)
}

func NewBotRunner(actions TableActions, seatID string, opts ...BotRunnerOpt) *botRunner {
	br := &botRunner{
		actions:             actions,
		seatID:              seatID,
		rnd:                 rand.New(rand.NewSource(time.Now().UnixNano())),
		probabilities:       defaultActionProbabilities,
		timebank:            timebank.NewTimeBank(),
		logger:              slog.Default(),
		onActionFailed:      func(string, error) {},
		onTableActionPlayed: func(string, string, int64) {},
	}

	for _, opt := range opts {
		opt(br)
	}

	return br
}

// WithThinkingTime makes the bot wait up to d before every move.
func WithThinkingTime(d time.Duration) BotRunnerOpt {
	return func(br *botRunner) {
		br.maxThinkingTime = d
	}
}

func WithRand(rnd *rand.Rand) BotRunnerOpt {
	return func(br *botRunner) {
		br.rnd = rnd
	}
}

func WithActionProbabilities(probabilities []ActionProbability) BotRunnerOpt {
	return func(br *botRunner) {
		br.probabilities = probabilities
	}
}

func WithLogger(logger *slog.Logger) BotRunnerOpt {
	return func(br *botRunner) {
		br.logger = logger
	}
}

func (br *botRunner) SeatID() string {
	return br.seatID
}

func (br *botRunner) OnActionFailed(fn func(seatID string, err error)) {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.onActionFailed = fn
}

func (br *botRunner) OnTableActionPlayed(fn func(seatID string, action string, total int64)) {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.onTableActionPlayed = fn
}

/*
UpdateTableState 收到桌次更新
  - 等待下一手時送出準備
  - 輪到自己時依權重隨機選擇動作
*/
func (br *botRunner) UpdateTableState(table *holdemtable.Table) error {
	br.mu.Lock()
	defer br.mu.Unlock()

	seat := table.FindSeat(br.seatID)
	if seat == nil {
		// left the table
		return nil
	}

	if table.State.Status == holdemtable.TableStateStatus_TableGameSettled && table.Meta.PauseTime > 0 {
		if br.lastReadyHand == table.State.HandCount {
			return nil
		}
		br.lastReadyHand = table.State.HandCount

		return br.timebank.NewTask(time.Duration(100)*time.Millisecond, func(isCancelled bool) {
			if isCancelled {
				return
			}
			br.report(Action_Ready, 0, br.actions.PlayerReady(br.seatID))
		})
	}

	if table.TurnSeatID() != br.seatID {
		return nil
	}

	session := table.State.Session
	key := fmt.Sprintf("%d/%d/%d/%d", table.State.HandCount, session.BettingRound, session.Bet, seat.Bet)
	if key == br.lastTurnKey {
		return nil
	}
	br.lastTurnKey = key

	action, total := br.decide(table, seat.Bet, seat.Stack)

	return br.timebank.NewTask(br.thinkingTime(), func(isCancelled bool) {
		if isCancelled {
			return
		}

		if action == Action_Fold {
			br.report(action, 0, br.actions.PlayerFold(br.seatID))
			return
		}
		br.report(action, total, br.actions.PlayerAct(br.seatID, total))
	})
}

func (br *botRunner) report(action string, total int64, err error) {
	br.mu.Lock()
	onFailed := br.onActionFailed
	onPlayed := br.onTableActionPlayed
	br.mu.Unlock()

	if err != nil {
		br.logger.Debug("bot action failed", "seat", br.seatID, "action", action, "error", err)
		onFailed(br.seatID, err)
		return
	}
	onPlayed(br.seatID, action, total)
}

func (br *botRunner) thinkingTime() time.Duration {
	// tasks always run off the table goroutine
	d := time.Duration(10) * time.Millisecond
	if br.maxThinkingTime > 0 {
		d += time.Duration(br.rnd.Int63n(int64(br.maxThinkingTime)))
	}
	return d
}

// decide returns the action and the total the seat commits on this street.
func (br *botRunner) decide(table *holdemtable.Table, bet int64, stack int64) (string, int64) {
	session := table.State.Session
	owed := session.Bet - bet
	allIn := bet + stack

	allowed := []string{Action_Check, Action_Raise, Action_AllIn}
	if owed > 0 {
		allowed = []string{Action_Call, Action_Raise, Action_AllIn, Action_Fold}
	}

	action := br.calcAction(allowed)
	switch action {
	case Action_Check:
		return action, bet
	case Action_Call:
		if session.Bet > allIn {
			return Action_AllIn, allIn
		}
		return action, session.Bet
	case Action_Raise:
		return action, br.raiseTotal(table, allIn)
	case Action_AllIn:
		return action, allIn
	}
	return Action_Fold, 0
}

func (br *botRunner) raiseTotal(table *holdemtable.Table, allIn int64) int64 {
	session := table.State.Session
	unit := table.Meta.MinDenomination

	minTotal := session.Bet + session.MinRaise
	if minTotal >= allIn {
		return allIn
	}

	steps := (allIn - minTotal) / unit
	return minTotal + br.rnd.Int63n(steps+1)*unit
}

// calcActionProbabilities scales the weights of the allowed actions into
// cumulative levels, keeping their order.
func (br *botRunner) calcActionProbabilities(actions []string) []ActionProbability {
	probabilities := make([]ActionProbability, 0, len(actions))
	totalWeight := 0.0
	for _, action := range actions {
		for _, p := range br.probabilities {
			if action == p.Action {
				probabilities = append(probabilities, p)
				totalWeight += p.Weight
				break
			}
		}
	}

	if totalWeight == 0 {
		return probabilities
	}

	weightLevel := 0.0
	for idx, p := range probabilities {
		weightLevel += p.Weight / totalWeight
		probabilities[idx].Weight = weightLevel
	}

	return probabilities
}

func (br *botRunner) calcAction(actions []string) string {
	probabilities := br.calcActionProbabilities(actions)
	randomNum := br.rnd.Float64()

	for _, p := range probabilities {
		if randomNum < p.Weight {
			return p.Action
		}
	}

	return actions[len(actions)-1]
}
