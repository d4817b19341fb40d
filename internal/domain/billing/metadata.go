package billing

import (
	"strconv"
	"strings"
)

// Session metadata keys attached at checkout-session creation and read back
// by the webhook reconciler and the admin ledger.
const (
	MetaType         = "type"
	MetaCourseIDs    = "course_ids"
	MetaStudentName  = "student_name"
	MetaStudentPhone = "student_phone"
	MetaUserID       = "user_id"
	MetaOrderRef     = "order_ref"

	PurchaseTypeCourse = "course_purchase"
)

// JoinCourseIDList serializes a cart for session metadata ("12,15,3").
func JoinCourseIDList(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}

// ParseCourseIDList is the inverse; malformed entries are skipped rather than
// failing the whole event.
func ParseCourseIDList(s string) []uint {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// ParseUserID reads the optional authenticated-buyer id from metadata.
func ParseUserID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
