package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SensorSeries is the full orientation time series reported by one sensor,
// indexed [component][t] in w, x, y, z order.
type SensorSeries struct {
	SensorID    int          `json:"sensor_id"`
	BodyID      int          `json:"body_id"`
	RoutePolicy string       `json:"route_policy"`
	Channels    [4][]float64 `json:"channels"`
}

type Episode struct {
	VersionedRecord
	ID           string         `json:"id"`
	EvalPeriod   int            `json:"eval_period"`
	DT           float64        `json:"dt"`
	CreatedAtUTC string         `json:"created_at_utc"`
	Sensors      []SensorSeries `json:"sensors"`
}
