// Package wire implements the JSON message envelope exchanged with
// clients: a lobby envelope carries no roomId, a room envelope does.
// There is no outer discriminator tag; callers decode into envelope
// shape first and dispatch on the presence of roomId plus the type
// field.
package wire

import "encoding/json"

// ClientMessage is an inbound message after envelope decoding.
type ClientMessage struct {
	RoomID  string          `json:"roomId,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// IsLobby reports whether this message targets the lobby rather than a
// room.
func (m ClientMessage) IsLobby() bool {
	return m.RoomID == ""
}

// Client message type strings.
const (
	TypeGetTables          = "GetTables"
	TypeSubscribe          = "Subscribe"
	TypeChat               = "Chat"
	TypeSitTable           = "SitTable"
	TypeBet                = "Bet"
	TypeFold               = "Fold"
	TypeSitOutNextHand     = "SitOutNextHand"
	TypeSitOutNextBigBlind = "SitOutNextBigBlind"
	TypeWaitForBigBlind    = "WaitForBigBlind"
	TypeCheckFold          = "CheckFold"
	TypeCallAny            = "CallAny"
)

// DecodeClientMessage parses the outer envelope.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMessage{}, err
	}
	return m, nil
}

// DecodeChat extracts the chat text from a Chat payload: a bare string.
func DecodeChat(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", err
	}
	return text, nil
}

type chipsPayload struct {
	Chips int64 `json:"chips"`
}

// DecodeSitTable extracts the buy-in amount from a SitTable payload.
func DecodeSitTable(raw json.RawMessage) (int64, error) {
	var p chipsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, err
	}
	return p.Chips, nil
}

// DecodeBet extracts the bet amount from a Bet payload: a bare int.
func DecodeBet(raw json.RawMessage) (int64, error) {
	var amount int64
	if err := json.Unmarshal(raw, &amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// DecodeBool extracts a boolean flag payload (a bare bool), shared by
// the SitOutNextHand / SitOutNextBigBlind / WaitForBigBlind / CheckFold
// / CallAny message types.
func DecodeBool(raw json.RawMessage) (bool, error) {
	var on bool
	if err := json.Unmarshal(raw, &on); err != nil {
		return false, err
	}
	return on, nil
}
