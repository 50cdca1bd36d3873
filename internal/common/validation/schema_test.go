package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmissionEdit(t *testing.T) {
	tests := []struct {
		name      string
		payload   map[string]interface{}
		wantValid bool
		wantField string
	}{
		{
			name:      "status change",
			payload:   map[string]interface{}{"status": "REVIEW_DONE"},
			wantValid: true,
		},
		{
			name: "applicants replaced",
			payload: map[string]interface{}{
				"applicants": []interface{}{map[string]interface{}{"name": "홍길동", "phone": "010-1234-5678"}},
				"coupon_used": false,
			},
			wantValid: true,
		},
		{
			name:      "empty payload",
			payload:   map[string]interface{}{},
			wantValid: false,
			wantField: "(root)",
		},
		{
			name:      "unknown status",
			payload:   map[string]interface{}{"status": "ON_HOLD"},
			wantValid: false,
			wantField: "status",
		},
		{
			name:      "unknown field",
			payload:   map[string]interface{}{"national_id": "900101-1234567"},
			wantValid: false,
			wantField: "(root)",
		},
		{
			name:      "applicant without name",
			payload:   map[string]interface{}{"applicants": []interface{}{map[string]interface{}{"phone": "010"}}},
			wantValid: false,
			wantField: "applicants.0",
		},
		{
			name:      "wrong type",
			payload:   map[string]interface{}{"coupon_used": "yes"},
			wantValid: false,
			wantField: "coupon_used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateSubmissionEdit(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.GetErrorMessages())
			if tt.wantField != "" {
				assert.True(t, result.HasErrors(tt.wantField), result.GetErrorMessages())
			}
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}
