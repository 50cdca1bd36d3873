package dashboard

const (
	MemberJoinedLabel       = "가입일"
	SubmissionReceivedLabel = "접수일시"
)

// Column pairs a record field with its display label.
type Column struct {
	Key   string
	Label string
}

var MemberColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "email", Label: "이메일"},
	{Key: "name", Label: "이름"},
	{Key: "phone", Label: "연락처"},
	{Key: "national_id", Label: "주민등록번호"},
	{Key: "address", Label: "주소"},
	{Key: "created_at", Label: MemberJoinedLabel},
}

var SubmissionColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "member_email", Label: "회원 이메일"},
	{Key: "litigation", Label: "소송"},
	{Key: "status", Label: "진행상태"},
	{Key: "intention", Label: "참여 의사"},
	{Key: "franchise", Label: "프랜차이즈"},
	{Key: "email", Label: "이메일"},
	{Key: "address", Label: "주소"},
	{Key: "backup_phone", Label: "비상 연락처"},
	{Key: "coupon_used", Label: "쿠폰 사용"},
	{Key: "agree_privacy", Label: "개인정보 동의"},
	{Key: "confirm_info", Label: "정보 확인"},
	{Key: "stores", Label: "매장"},
	{Key: "applicants", Label: "신청인"},
	{Key: "created_at", Label: SubmissionReceivedLabel},
}

// Relabel maps keys to display labels in order. Keys without a label are
// returned unchanged.
func Relabel(keys []string, columns []Column) []string {
	labels := make(map[string]string, len(columns))
	for _, c := range columns {
		labels[c.Key] = c.Label
	}

	out := make([]string, len(keys))
	for i, k := range keys {
		if label, ok := labels[k]; ok {
			out[i] = label
			continue
		}
		out[i] = k
	}
	return out
}

func columnKeys(columns []Column) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	return keys
}
