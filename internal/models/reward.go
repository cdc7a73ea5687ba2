package models

import "time"

// Reward is an item in the talent marketplace.
type Reward struct {
	ID          int64  `json:"id" db:"id" example:"7"`
	Name        string `json:"name" db:"name" example:"연필 세트"`
	Description string `json:"description" db:"description"`
	Price       int64  `json:"price" db:"price" example:"10"`
	Stock       int    `json:"stock" db:"stock" example:"25"`
	Active      bool   `json:"active" db:"active"`
}

// Voucher is issued for each purchase and shown to the teacher at pickup.
type Voucher struct {
	Code      string    `json:"code" db:"code"`
	RewardID  int64     `json:"rewardId" db:"reward_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Price     int64     `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
