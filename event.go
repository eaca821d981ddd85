package holdemtable

import (
	"fmt"
)

func (te *tableEngine) emitEvent(eventName string, seatID string) {
	te.syncState()
	te.table.RefreshUpdateAt()

	te.logger.Debug(fmt.Sprintf("[Table %s][#%d][%d][%s] emit Event: %s", te.table.ID, te.table.UpdateSerial, te.table.State.HandCount, seatID, eventName))

	snapshot := te.table.Clone()

	te.lock.Lock()
	te.snapshot = snapshot
	fn := te.onTableUpdated
	te.lock.Unlock()

	fn(snapshot.Clone())
}

func (te *tableEngine) emitErrorEvent(eventName string, seatID string, err error) {
	te.logger.Warn(fmt.Sprintf("[Table %s][#%d][%d][%s] emit ERROR Event: %s, Error: %v", te.table.ID, te.table.UpdateSerial, te.table.State.HandCount, seatID, eventName, err))

	te.lock.Lock()
	fn := te.onTableErrorUpdated
	te.lock.Unlock()

	fn(te.table.Clone(), err)
}
