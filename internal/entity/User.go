package entity

import "time"

type User struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	PassHash  []byte    `bson:"pass_hash"`
	CreatedAt time.Time `bson:"created_at"`
}
