// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	DateOfBirth  string
	InjuryTypeID int64
	LastReset    time.Time
	CreatedAt    time.Time
}

type InjuryType struct {
	ID          int64
	Name        string
	Description string
	Treatment   []int64
}
