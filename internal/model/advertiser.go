package model

import "time"

// Advertiser mirrors the 'advertisers' table: the company profile created
// atomically with an advertiser account at registration.
type Advertiser struct {
	ID          uint64    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	Website     string    `json:"website,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
