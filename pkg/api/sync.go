package api

// ReadyTopic is the topic of the first message of every Watch stream, sent
// once the subscription is live.
const ReadyTopic = "ready"

type WatchRequest struct {
	// Topics to follow; patterns may end in "*". Empty follows the whole trip.
	// Topics are relative to the trip, e.g. "notes/<block>", "gastro/*", "scores".
	Topics []string `json:"topics,omitempty"`
}

type WatchResponse struct {
	Topic    string `json:"topic"`
	DeviceID string `json:"deviceId,omitempty"`
	// At is a Unix timestamp in milliseconds.
	At int64 `json:"at"`
}
