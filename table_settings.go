package holdemtable

type TableSetting struct {
	TableID     string       `json:"table_id"`
	Meta        TableMeta    `json:"table_meta"`
	Host        JoinPlayer   `json:"host"`         // 桌主，第一手的 Dealer
	JoinPlayers []JoinPlayer `json:"join_players"` // 開桌時一併入座的玩家
}

// JoinPlayer asks for a seat. Amounts are in cents.
type JoinPlayer struct {
	SeatID   string `json:"seat_id"` // generated when empty
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	BuyIn    int64  `json:"buy_in"`
}

func NewDefaultTableSetting(host JoinPlayer, joinPlayers ...JoinPlayer) TableSetting {
	return TableSetting{
		Meta:        NewDefaultTableMeta(),
		Host:        host,
		JoinPlayers: joinPlayers,
	}
}
