package dashboard

import (
	"fmt"
	"strings"
	"time"

	"classaction-admin/internal/models"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	entrySeparator = ", "

	yes = "예"
	no  = "아니오"
)

// FormatApplicants renders applicant entries as
// "name(phone, national id, address)" joined by ", ". It accepts a decoded
// list, JSON text, generic decoded JSON or nil; text that does not decode is
// returned unchanged and any other value is printed with its default format.
func FormatApplicants(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case models.ApplicantList:
		return formatApplicantList(t)
	case *models.ApplicantList:
		if t == nil {
			return ""
		}
		return formatApplicantList(*t)
	case []models.ApplicantEntry:
		return joinApplicants(t)
	case string:
		return formatApplicantList(models.DecodeApplicantList(t))
	case []byte:
		return formatApplicantList(models.DecodeApplicantList(string(t)))
	case []any:
		return joinApplicants(models.ApplicantsFromItems(t))
	case []map[string]any:
		return joinApplicants(models.ApplicantsFromItems(recordItems(t)))
	default:
		return fmt.Sprint(t)
	}
}

// FormatStores renders store entries as "name(period)" or "name".
func FormatStores(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case models.StoreList:
		return formatStoreList(t)
	case *models.StoreList:
		if t == nil {
			return ""
		}
		return formatStoreList(*t)
	case []models.StoreEntry:
		return joinStores(t)
	case string:
		return formatStoreList(models.DecodeStoreList(t))
	case []byte:
		return formatStoreList(models.DecodeStoreList(string(t)))
	case []any:
		return joinStores(models.StoresFromItems(t))
	case []map[string]any:
		return joinStores(models.StoresFromItems(recordItems(t)))
	default:
		return fmt.Sprint(t)
	}
}

func formatApplicantList(l models.ApplicantList) string {
	if l.Invalid {
		return l.Raw
	}
	return joinApplicants(l.Entries)
}

func formatStoreList(l models.StoreList) string {
	if l.Invalid {
		return l.Raw
	}
	return joinStores(l.Entries)
}

func joinApplicants(entries []models.ApplicantEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		parts = append(parts, withDetails(e.Name, e.Phone, e.NationalID, e.Address))
	}
	return strings.Join(parts, entrySeparator)
}

func joinStores(entries []models.StoreEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		parts = append(parts, withDetails(e.Name, e.Period))
	}
	return strings.Join(parts, entrySeparator)
}

func withDetails(name string, details ...string) string {
	kept := details[:0:0]
	for _, d := range details {
		if d != "" {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return name
	}
	return name + "(" + strings.Join(kept, entrySeparator) + ")"
}

func recordItems(recs []map[string]any) []any {
	items := make([]any, len(recs))
	for i, r := range recs {
		items[i] = r
	}
	return items
}

// YesNo renders a flag the way the tables show it.
func YesNo(b bool) string {
	if b {
		return yes
	}
	return no
}

// DisplayValue renders a table cell as text.
func DisplayValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateTimeLayout)
	case bool:
		return YesNo(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
