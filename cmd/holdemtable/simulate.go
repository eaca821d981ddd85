package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/actor"
	"github.com/weedbox/holdemtable/settlement"
)

type tableObserver interface {
	UpdateTableState(table *holdemtable.Table) error
}

type TableResult struct {
	TableID string
	Hands   int
	Report  *settlement.Report
}

func runSimulation(ctx context.Context, cfg Config, logger *slog.Logger) ([]*TableResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulation started", "tables", cfg.Tables, "hands", cfg.Hands, "players", cfg.Players, "seed", seed)

	manager := holdemtable.NewManager()
	defer manager.Reset()

	results := make([]*TableResult, cfg.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Tables; i++ {
		i := i
		g.Go(func() error {
			tableID := fmt.Sprintf("table-%d", i+1)
			result, err := playTable(ctx, manager, cfg, tableID, seed+int64(i)*1000, logger.With("table", tableID))
			if err != nil {
				return fmt.Errorf("%s: %w", tableID, err)
			}
			results[i] = result
			return nil
		})
	}

	err := g.Wait()

	done := make([]*TableResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			done = append(done, r)
		}
	}
	return done, err
}

func newTableSetting(cfg Config, tableID string) holdemtable.TableSetting {
	players := make([]holdemtable.JoinPlayer, 0, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		name := fmt.Sprintf("bot-%d", i+1)
		players = append(players, holdemtable.JoinPlayer{
			SeatID:   fmt.Sprintf("%s-seat-%d", tableID, i+1),
			PlayerID: fmt.Sprintf("%s-%s", tableID, name),
			Name:     name,
			Contact:  fmt.Sprintf("%s@%s.example.com", name, tableID),
			BuyIn:    cfg.BuyIn,
		})
	}

	setting := holdemtable.NewDefaultTableSetting(players[0], players[1:]...)
	setting.TableID = tableID
	setting.Meta.Name = tableID
	setting.Meta.SmallBlind = cfg.SmallBlind
	setting.Meta.MinBuyIn = cfg.BuyIn
	setting.Meta.MinDenomination = cfg.MinDenomination
	setting.Meta.ActionTime = cfg.ActionTime
	setting.Meta.PauseTime = cfg.PauseTime
	if setting.Meta.MaxSeatCount < cfg.Players {
		setting.Meta.MaxSeatCount = cfg.Players
	}
	return setting
}

/*
playTable 跑完一張桌
  - 每個座位由一個 bot 負責
  - 打滿指定手數或人數不足時送出關桌，等待結算報表
*/
func playTable(ctx context.Context, manager holdemtable.Manager, cfg Config, tableID string, seed int64, logger *slog.Logger) (*TableResult, error) {
	var mu sync.Mutex
	bots := make([]tableObserver, 0, cfg.Players)

	closeOnce := sync.Once{}
	closing := make(chan struct{})
	requestClose := func() {
		closeOnce.Do(func() { close(closing) })
	}

	settled := make(chan *settlement.Report, 1)

	callbacks := holdemtable.NewTableEngineCallbacks()
	callbacks.OnTableUpdated = func(table *holdemtable.Table) {
		mu.Lock()
		for _, bot := range bots {
			if err := bot.UpdateTableState(table); err != nil {
				logger.Warn("bot update failed", "error", err)
			}
		}
		mu.Unlock()

		switch {
		case table.State.HandCount >= cfg.Hands:
			requestClose()
		case table.State.Status == holdemtable.TableStateStatus_TableGameStandby:
			requestClose()
		}
	}
	callbacks.OnTableErrorUpdated = func(table *holdemtable.Table, err error) {
		logger.Debug("table error", "error", err)
	}
	callbacks.OnTableSettled = func(table *holdemtable.Table, report *settlement.Report) {
		settled <- report
	}

	options := holdemtable.NewTableEngineOptions()
	options.SettlementUnit = cfg.SettlementUnit

	setting := newTableSetting(cfg, tableID)
	if _, err := manager.CreateTable(options, callbacks, setting,
		holdemtable.WithRandSource(rand.NewSource(seed)),
		holdemtable.WithLogger(logger),
	); err != nil {
		return nil, err
	}

	te, err := manager.GetTableEngine(tableID)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	for i, seat := range te.GetTable().State.Seats {
		bot := actor.NewBotRunner(te, seat.ID,
			actor.WithThinkingTime(cfg.ThinkingTime),
			actor.WithRand(rand.New(rand.NewSource(seed+int64(i)+1))),
			actor.WithLogger(logger.With("seat", seat.ID)),
		)
		bot.OnActionFailed(func(seatID string, err error) {
			logger.Debug("bot action rejected", "seat", seatID, "error", err)
		})
		bots = append(bots, bot)
	}
	mu.Unlock()

	if err := te.StartTableGame(); err != nil {
		return nil, err
	}

	// the first hand was dealt before the bots could see it
	table := te.GetTable()
	mu.Lock()
	for _, bot := range bots {
		_ = bot.UpdateTableState(table)
	}
	mu.Unlock()

	select {
	case <-closing:
	case <-ctx.Done():
		logger.Warn("simulation interrupted, closing table")
	}

	if err := manager.CloseTable(tableID); err != nil {
		return nil, err
	}

	var report *settlement.Report
	select {
	case report = <-settled:
	case <-te.Done():
		select {
		case report = <-settled:
		default:
			return nil, holdemtable.ErrTableHalted
		}
	}
	<-te.Done()

	hands := te.GetTable().State.HandCount
	logger.Info("table settled", "hands", hands, "bank", settlement.FormatMoney(report.Bank))

	return &TableResult{
		TableID: tableID,
		Hands:   hands,
		Report:  report,
	}, nil
}
