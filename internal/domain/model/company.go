package model

import "time"

type Company struct {
	ID        string
	Name      string
	Domain    string
	CreatedAt time.Time
}
