package open_game_manager

import (
	"sort"

	"github.com/weedbox/syncsaga"
)

func newReadyGroup(timeout int) *syncsaga.ReadyGroup {
	return syncsaga.NewReadyGroup(syncsaga.WithTimeout(timeout, func(rg *syncsaga.ReadyGroup) {
		// seats that did not answer are ready by default
		for idx, isReady := range rg.GetParticipantStates() {
			if !isReady {
				rg.Ready(idx)
			}
		}
	}))
}

func NewOpenGameManager(options OpenGameOption) OpenGameManager {
	return &openGameManager{
		onOpenGameReady: options.OnOpenGameReady,
		rg:              newReadyGroup(options.Timeout),
		state: &OpenGameState{
			Timeout:      options.Timeout,
			HandCount:    0,
			Participants: make(map[string]*OpenGameParticipant),
		},
	}
}

// NewOpenGameManagerFromState resumes a pause restored from storage.
func NewOpenGameManagerFromState(state OpenGameState, options OpenGameOption) OpenGameManager {
	m := &openGameManager{
		onOpenGameReady: options.OnOpenGameReady,
		rg:              newReadyGroup(options.Timeout),
		state: &OpenGameState{
			Timeout:      options.Timeout,
			HandCount:    state.HandCount,
			Participants: make(map[string]*OpenGameParticipant),
		},
	}
	m.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		m.readyGroupOnCompleted()
	})

	m.readyGroupResetParticipants()
	ready := make([]OpenGameParticipant, 0)
	for _, p := range state.Participants {
		m.readyGroupAddParticipant(*p, false)
		if p.IsReady {
			ready = append(ready, *p)
		}
	}
	m.rg.Start()

	for _, p := range ready {
		m.readyGroupAddParticipant(p, true)
	}

	return m
}

func (m *openGameManager) Ready(seatID string) error {
	return m.readyGroupReady(seatID)
}

/*
Setup 開始新的等待
  - handCount 為剛結束的手數，開下一手時用來比對
  - seatIDs 依排序後的順序編號
*/
func (m *openGameManager) Setup(handCount int, seatIDs []string) {
	m.rg.Stop()

	m.mu.Lock()
	m.state.HandCount = handCount
	m.mu.Unlock()

	m.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		m.readyGroupOnCompleted()
	})
	m.readyGroupResetParticipants()

	ids := append([]string{}, seatIDs...)
	sort.Strings(ids)
	for idx, id := range ids {
		m.readyGroupAddParticipant(OpenGameParticipant{
			SeatID: id,
			Index:  idx,
		}, false)
	}

	m.rg.Start()
}

func (m *openGameManager) Stop() {
	m.rg.Stop()
}

func (m *openGameManager) GetState() OpenGameState {
	m.mu.Lock()
	defer m.mu.Unlock()

	participants := make(map[string]*OpenGameParticipant, len(m.state.Participants))
	for id, p := range m.state.Participants {
		c := *p
		participants[id] = &c
	}

	return OpenGameState{
		Timeout:      m.state.Timeout,
		HandCount:    m.state.HandCount,
		Participants: participants,
	}
}
