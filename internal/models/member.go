package models

import "time"

type Member struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	NationalID string    `json:"national_id"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}
