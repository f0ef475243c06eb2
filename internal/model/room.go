package model

import "time"

// Room は会議室の情報を表す構造体です
// バックエンド側が所有し、スケジューリングエンジンからは読み取り専用として扱います
type Room struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Price     float64   `json:"price" db:"price"`
	Amenities string    `json:"amenities" db:"amenities"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
