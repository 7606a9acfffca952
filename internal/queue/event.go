package queue

// VehicleRegisteredEvent is published after a vehicle row is inserted. The
// consumer writes it to the registration log; downstream review tooling
// tails that log for vehicles awaiting approval.
type VehicleRegisteredEvent struct {
	VehicleID    uint64 `json:"vehicle_id"`
	OwnerID      string `json:"owner_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	PlateNumber  string `json:"plate_number"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registered_at"` // RFC3339
}
