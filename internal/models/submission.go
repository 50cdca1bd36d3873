package models

import "time"

type Submission struct {
	ID           int64            `json:"id"`
	MemberEmail  string           `json:"member_email"`
	Intention    string           `json:"intention"`
	Address      string           `json:"address"`
	Email        string           `json:"email"`
	Franchise    string           `json:"franchise"`
	BackupPhone  string           `json:"backup_phone"`
	CouponUsed   bool             `json:"coupon_used"`
	AgreePrivacy bool             `json:"agree_privacy"`
	ConfirmInfo  bool             `json:"confirm_info"`
	Stores       StoreList        `json:"stores"`
	Applicants   ApplicantList    `json:"applicants"`
	CreatedAt    time.Time        `json:"created_at"`
	Status       SubmissionStatus `json:"status"`
	Litigation   string           `json:"litigation"`
}

type StoreEntry struct {
	Name   string `json:"name"`
	Period string `json:"period,omitempty"`
}

type ApplicantEntry struct {
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
}
