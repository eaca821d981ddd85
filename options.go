package holdemtable

import (
	"time"

	"github.com/weedbox/holdemtable/settlement"
)

type TableEngineCallbacks struct {
	OnTableUpdated      func(t *Table)
	OnTableErrorUpdated func(t *Table, err error)
	OnTableSettled      func(t *Table, report *settlement.Report)
}

func NewTableEngineCallbacks() *TableEngineCallbacks {
	return &TableEngineCallbacks{
		OnTableUpdated:      func(*Table) {},
		OnTableErrorUpdated: func(*Table, error) {},
		OnTableSettled:      func(*Table, *settlement.Report) {},
	}
}

type TableEngineOptions struct {
	SettlementUnit   int64         // 關桌結算進位單位 (cents)
	NotifyBufferSize int           // 通知佇列長度，滿了就丟棄
	StoreTimeout     time.Duration // 單次寫入的逾時
}

func NewTableEngineOptions() *TableEngineOptions {
	return &TableEngineOptions{
		SettlementUnit:   DefaultSettlementUnit,
		NotifyBufferSize: DefaultNotifyBuffer,
		StoreTimeout:     5 * time.Second,
	}
}
