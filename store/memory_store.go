package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore keeps JSON encoded copies of every record, so callers never
// share memory with what was committed.
type MemoryStore struct {
	mu       sync.RWMutex
	tables   map[string][]byte
	seats    map[string]map[string][]byte
	sessions map[string][]byte
	commits  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]byte),
		seats:    make(map[string]map[string][]byte),
		sessions: make(map[string][]byte),
	}
}

func (ms *MemoryStore) LoadTable(ctx context.Context, tableID string) (*TableRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	data, ok := ms.tables[tableID]
	ms.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var r TableRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (ms *MemoryStore) LoadSeat(ctx context.Context, tableID string, seatID string) (*SeatRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	data, ok := ms.seats[tableID][seatID]
	ms.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var r SeatRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListSeats returns every stored seat of a table ordered by seat id.
func (ms *MemoryStore) ListSeats(ctx context.Context, tableID string) ([]*SeatRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := make([]string, 0, len(ms.seats[tableID]))
	for id := range ms.seats[tableID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]*SeatRecord, 0, len(ids))
	for _, id := range ids {
		var r SeatRecord
		if err := json.Unmarshal(ms.seats[tableID][id], &r); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, nil
}

func (ms *MemoryStore) LoadSession(ctx context.Context, tableID string) (*SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	data, ok := ms.sessions[tableID]
	ms.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var r SessionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

/*
Commit 寫入變更
  - 先編碼所有紀錄，任何一筆失敗則整批不寫入
*/
func (ms *MemoryStore) Commit(ctx context.Context, cs ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cs.TableID == "" {
		return ErrMissingTableID
	}
	if cs.IsEmpty() {
		return ErrEmptyChangeSet
	}

	var table []byte
	if cs.Table != nil {
		data, err := json.Marshal(cs.Table)
		if err != nil {
			return err
		}
		table = data
	}

	seats := make(map[string][]byte, len(cs.Seats))
	for _, r := range cs.Seats {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		seats[r.Seat.ID] = data
	}

	var session []byte
	if cs.Session != nil {
		data, err := json.Marshal(cs.Session)
		if err != nil {
			return err
		}
		session = data
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if table != nil {
		ms.tables[cs.TableID] = table
	}

	if _, ok := ms.seats[cs.TableID]; !ok {
		ms.seats[cs.TableID] = make(map[string][]byte)
	}
	for id, data := range seats {
		ms.seats[cs.TableID][id] = data
	}
	for _, id := range cs.RemovedSeats {
		delete(ms.seats[cs.TableID], id)
	}

	if session != nil {
		ms.sessions[cs.TableID] = session
	}

	ms.commits++
	return nil
}

// Commits counts successful commits.
func (ms *MemoryStore) Commits() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.commits
}
