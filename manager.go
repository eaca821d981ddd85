package holdemtable

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrManagerTableNotFound = errors.New("manager: table not found")
)

type Manager interface {
	Reset()

	// TableEngine Actions
	GetTableEngine(tableID string) (TableEngine, error)
	CreateTable(options *TableEngineOptions, callbacks *TableEngineCallbacks, setting TableSetting, opts ...TableEngineOpt) (*Table, error)
	RestoreTable(options *TableEngineOptions, callbacks *TableEngineCallbacks, tableID string, opts ...TableEngineOpt) (*Table, error)
	CloseTable(tableID string) error
	StartTableGame(tableID string) error
	PauseTable(tableID string) error

	// Player Table Actions
	PlayerJoin(tableID string, joinPlayer JoinPlayer) (string, error)
	SubmitCommand(tableID string, cmd AdminCommand) error

	// Player Game Actions
	PlayerAct(tableID, seatID string, total int64) error
	PlayerFold(tableID, seatID string) error
	PlayerReady(tableID, seatID string) error
}

type manager struct {
	tableEngines sync.Map
}

func NewManager() Manager {
	return &manager{
		tableEngines: sync.Map{},
	}
}

func (m *manager) Reset() {
	m.tableEngines.Range(func(key, value interface{}) bool {
		m.tableEngines.Delete(key)
		return true
	})
}

func (m *manager) GetTableEngine(tableID string) (TableEngine, error) {
	tableEngine, exist := m.tableEngines.Load(tableID)
	if !exist {
		return nil, ErrManagerTableNotFound
	}
	return tableEngine.(TableEngine), nil
}

func (m *manager) CreateTable(options *TableEngineOptions, callbacks *TableEngineCallbacks, setting TableSetting, opts ...TableEngineOpt) (*Table, error) {
	tableEngine := m.newTableEngine(options, callbacks, opts...)
	table, err := tableEngine.CreateTable(setting)
	if err != nil {
		return nil, err
	}

	m.tableEngines.Store(table.ID, tableEngine)
	return table, nil
}

// RestoreTable brings a stored table back under this manager.
func (m *manager) RestoreTable(options *TableEngineOptions, callbacks *TableEngineCallbacks, tableID string, opts ...TableEngineOpt) (*Table, error) {
	if _, exist := m.tableEngines.Load(tableID); exist {
		return nil, fmt.Errorf("%w: table %s is already running", ErrTableRestore, tableID)
	}

	tableEngine := m.newTableEngine(options, callbacks, opts...)
	table, err := tableEngine.RestoreTable(tableID)
	if err != nil {
		return nil, err
	}

	m.tableEngines.Store(table.ID, tableEngine)
	return table, nil
}

func (m *manager) newTableEngine(options *TableEngineOptions, callbacks *TableEngineCallbacks, opts ...TableEngineOpt) TableEngine {
	var engineOptions *TableEngineOptions
	if options != nil {
		engineOptions = options
	} else {
		engineOptions = NewTableEngineOptions()
	}

	var engineCallbacks *TableEngineCallbacks
	if callbacks != nil {
		engineCallbacks = callbacks
	} else {
		engineCallbacks = NewTableEngineCallbacks()
	}

	tableEngine := NewTableEngine(engineOptions, opts...)
	tableEngine.OnTableUpdated(engineCallbacks.OnTableUpdated)
	tableEngine.OnTableErrorUpdated(engineCallbacks.OnTableErrorUpdated)
	tableEngine.OnTableSettled(engineCallbacks.OnTableSettled)
	return tableEngine
}

func (m *manager) CloseTable(tableID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	if err := tableEngine.CloseTable(); err != nil {
		return err
	}

	m.tableEngines.Delete(tableID)
	return nil
}

func (m *manager) StartTableGame(tableID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.StartTableGame()
}

func (m *manager) PauseTable(tableID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.PauseTable()
}

func (m *manager) PlayerJoin(tableID string, joinPlayer JoinPlayer) (string, error) {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return "", ErrManagerTableNotFound
	}

	return tableEngine.PlayerJoin(joinPlayer)
}

func (m *manager) SubmitCommand(tableID string, cmd AdminCommand) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.SubmitCommand(cmd)
}

func (m *manager) PlayerAct(tableID, seatID string, total int64) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.PlayerAct(seatID, total)
}

func (m *manager) PlayerFold(tableID, seatID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.PlayerFold(seatID)
}

func (m *manager) PlayerReady(tableID, seatID string) error {
	tableEngine, err := m.GetTableEngine(tableID)
	if err != nil {
		return ErrManagerTableNotFound
	}

	return tableEngine.PlayerReady(seatID)
}
