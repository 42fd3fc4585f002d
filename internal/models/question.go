package models

import "time"

type Question struct {
	ID      int64
	UUID    string
	Content string
	Date    time.Time
	User    User
}

type Answer struct {
	ID       int64
	UUID     string
	Content  string
	Date     time.Time
	User     User
	Question Question
}
