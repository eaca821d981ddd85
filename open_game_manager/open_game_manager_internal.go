package open_game_manager

func (m *openGameManager) readyGroupResetParticipants() {
	m.rg.ResetParticipants()

	m.mu.Lock()
	m.state.Participants = map[string]*OpenGameParticipant{}
	m.mu.Unlock()
}

func (m *openGameManager) readyGroupAddParticipant(p OpenGameParticipant, isReady bool) {
	m.mu.Lock()
	m.state.Participants[p.SeatID] = &OpenGameParticipant{
		SeatID:  p.SeatID,
		Index:   p.Index,
		IsReady: isReady,
	}
	m.mu.Unlock()

	m.rg.Add(int64(p.Index), isReady)
}

func (m *openGameManager) readyGroupOnCompleted() {
	m.mu.Lock()
	for _, p := range m.state.Participants {
		p.IsReady = true
	}
	m.mu.Unlock()

	if m.onOpenGameReady != nil {
		m.onOpenGameReady(m.GetState())
	}
}

func (m *openGameManager) readyGroupReady(seatID string) error {
	m.mu.Lock()
	p, exist := m.state.Participants[seatID]
	if !exist {
		m.mu.Unlock()
		return ErrParticipantNotFound
	}
	p.IsReady = true
	idx := p.Index
	m.mu.Unlock()

	m.rg.Ready(int64(idx))
	return nil
}
