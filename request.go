package holdemtable

type RequestAction string

const (
	RequestAction_StartTableGame RequestAction = "StartTableGame"
	RequestAction_PlayerJoin     RequestAction = "PlayerJoin"
	RequestAction_PlayerAct      RequestAction = "PlayerAct"
	RequestAction_PlayerFold     RequestAction = "PlayerFold"
	RequestAction_PlayerReady    RequestAction = "PlayerReady"
	RequestAction_AdminCommand   RequestAction = "AdminCommand"
	RequestAction_Timeout        RequestAction = "Timeout"
	RequestAction_OpenNextHand   RequestAction = "OpenNextHand"
)

type Request struct {
	Action RequestAction
	Param  interface{}
	reply  chan error
}

type PlayerJoinParam struct {
	JoinPlayer JoinPlayer
}

type PlayerActParam struct {
	SeatID string
	Total  int64 // 本街累計下注額
}

type PlayerSeatParam struct {
	SeatID string
}

type TimeoutParam struct {
	SeatID string
	Serial int64 // 逾時回合序號，與目前不符則忽略
}

type OpenNextHandParam struct {
	HandCount int // 結算時的手數，與目前不符則忽略
}
