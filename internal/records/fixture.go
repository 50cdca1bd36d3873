package records

import (
	"context"
	"time"

	"classaction-admin/internal/models"
)

var kst = time.FixedZone("KST", 9*60*60)

// Fixture serves the built-in sample records.
type Fixture struct {
	members     []models.Member
	submissions []models.Submission
}

func NewFixture() *Fixture {
	return &Fixture{
		members:     FixtureMembers(),
		submissions: FixtureSubmissions(),
	}
}

// NewFixtureWith serves the given records instead of the samples.
func NewFixtureWith(members []models.Member, submissions []models.Submission) *Fixture {
	return &Fixture{members: members, submissions: submissions}
}

func (f *Fixture) ListMembers(context.Context) ([]models.Member, error) {
	out := make([]models.Member, len(f.members))
	copy(out, f.members)
	return out, nil
}

func (f *Fixture) ListSubmissions(context.Context) ([]models.Submission, error) {
	out := make([]models.Submission, len(f.submissions))
	copy(out, f.submissions)
	return out, nil
}

func FixtureMembers() []models.Member {
	return []models.Member{
		{
			ID:         1,
			Email:      "demo1@example.com",
			Name:       "홍길동",
			Phone:      "010-1234-5678",
			NationalID: "900101-1234567",
			Address:    "서울특별시 어딘가 1-1",
			CreatedAt:  time.Date(2025, 11, 1, 10, 0, 0, 0, kst),
		},
		{
			ID:         2,
			Email:      "demo2@example.com",
			Name:       "김철수",
			Phone:      "010-2222-3333",
			NationalID: "910202-2345678",
			Address:    "경기도 어딘가 2-2",
			CreatedAt:  time.Date(2025, 11, 2, 12, 30, 0, 0, kst),
		},
	}
}

// FixtureSubmissions keeps stores and applicants as JSON text, the way they
// arrive from storage, and decodes them on load.
func FixtureSubmissions() []models.Submission {
	return []models.Submission{
		{
			ID:           1,
			MemberEmail:  "demo1@example.com",
			Intention:    "소송 참여 희망",
			Address:      "서울특별시 어딘가 1-1",
			Email:        "demo1@example.com",
			Franchise:    "배달의민족",
			BackupPhone:  "010-0000-0000",
			CouponUsed:   true,
			AgreePrivacy: true,
			ConfirmInfo:  true,
			Stores:       models.DecodeStoreList(`[{"name": "서울 1호점", "period": "2020-01 ~ 2023-01"}]`),
			Applicants:   models.DecodeApplicantList(`[{"name": "홍길동", "phone": "010-1234-5678", "address": "서울특별시 어딘가 1-1"}]`),
			CreatedAt:    time.Date(2025, 11, 3, 9, 0, 0, 0, kst),
			Status:       models.StatusApplied,
			Litigation:   "배민 수수료 소송",
		},
		{
			ID:           2,
			MemberEmail:  "demo2@example.com",
			Intention:    "관심 있음",
			Address:      "경기도 어딘가 2-2",
			Email:        "demo2@example.com",
			Franchise:    "쿠팡이츠",
			BackupPhone:  "010-9999-8888",
			CouponUsed:   false,
			AgreePrivacy: true,
			ConfirmInfo:  true,
			Stores:       models.DecodeStoreList(`[{"name": "경기 1호점", "period": "2019-03 ~ 2022-12"}]`),
			Applicants:   models.DecodeApplicantList(`[{"name": "김철수", "phone": "010-2222-3333", "address": "경기도 어딘가 2-2"}]`),
			CreatedAt:    time.Date(2025, 11, 5, 15, 30, 0, 0, kst),
			Status:       models.StatusUnderReview,
			Litigation:   "쿠팡이츠 수수료 소송",
		},
	}
}
