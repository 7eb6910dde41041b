package models

import "database/sql"

// Dataset represents the datasets metadata table
type Dataset struct {
	Code         string       `db:"dataset_code" json:"code"`
	Name         string       `db:"dataset_name" json:"name"`
	Topic        string       `db:"topic" json:"topic"`
	Description  string       `db:"description" json:"description"`
	Contact      string       `db:"contact" json:"contact"`
	Email        string       `db:"email" json:"email"`
	DateUpdate   sql.NullTime `db:"date_update" json:"date_update"`
	FileSize     string       `db:"file_size" json:"file_size"`
	FileRows     int64        `db:"file_rows" json:"file_rows"`
	FileLocation string       `db:"file_location" json:"file_location"`
}
