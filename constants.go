package holdemtable

const (
	// General
	UnsetValue = -1

	// Table defaults
	DefaultActionTime     = 60  // 玩家動作思考時間 (Seconds)
	DefaultPauseTime      = 3   // 每手結束後的等待時間 (Seconds)
	DefaultMaxSeatCount   = 9   // 每桌人數上限
	MaxSeatCountLimit     = 22  // 一副牌最多可支援的人數
	DefaultNotifyBuffer   = 256 // 通知佇列長度
	DefaultSettlementUnit = 100 // 結算進位單位 (cents)
)
