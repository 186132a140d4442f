package models

import (
	"time"
)

type User struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string     `gorm:"size:255;uniqueIndex" json:"username"`
	Email       string     `gorm:"size:255;uniqueIndex" json:"email"`
	Password    string     `gorm:"size:255" json:"-"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Hobby struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex:hobbies_name_key" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Hobby) TableName() string {
	return "hobbies"
}

type UserHobby struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64 `gorm:"index:user_hobby_idx,unique" json:"user_id"`
	HobbyID int64 `gorm:"index:user_hobby_idx,unique" json:"hobby_id"`
}

func (UserHobby) TableName() string {
	return "user_hobbies"
}
